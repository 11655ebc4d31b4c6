// Package pdf carries rendered PDF documents and combines them into one.
package pdf

// Pdf is a named PDF byte buffer.
type Pdf struct {
	Data []byte
	Name string
}
