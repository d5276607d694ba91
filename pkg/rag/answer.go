package rag

// Answer is the raw output of one chain invocation: the model text and the
// context segments that were put into the prompt, in retrieval order.
type Answer struct {
	Text    string
	Context []string
}
