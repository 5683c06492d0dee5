// Package normalisers holds the decoders that turn external text into
// domain values. The response subpackage handles completion replies.
package normalisers
