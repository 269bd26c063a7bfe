// Package filesystem loads local files as raw documents and watches
// directories for changes using fsnotify.
package filesystem
