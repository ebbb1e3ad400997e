// Package aperak generates EDIFACT APERAK acknowledgment messages for
// received energy-market interchanges.
//
// An APERAK reports the processing status of an original message back to
// its sender: accepted, rejected, partially accepted or received. For
// rejections the generator embeds one ERC segment per reported error. The
// generated text is newline-joined for readability; re-tokenizing it
// yields the same segments because the tokenizer discards line breaks.
package aperak
