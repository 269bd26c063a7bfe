// Package connectors holds the document sources. The only source is the
// local filesystem: files named on the command line, directories walked
// recursively, and directories watched for changes.
package connectors
