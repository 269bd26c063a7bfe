package domain

// Section is a labelled region of a document delimited by a recognised
// header line. Label is empty for the block before the first header.
// Body is never empty.
type Section struct {
	Label string
	Body  string
}
