// Package schema defines the values exchanged between host and module.
//
// Output flows as an ExchangeFormat, an ordered list of drawable Items
// (Text or Image). Input flows as an ExchangeableConfig, an insertion-ordered
// mapping from key to Param.
//
// Every type marshals to the canonical JSON wire form:
//
//	{"items":[{"Text":{"value":"hi","x":0,"y":0,"scale_x":16.0,"scale_y":16.0,"color":[255,255,255],"symbol":false}}]}
//	{"params":[["scale",{"Float":2.0}],["label",{"String":"hi"}]]}
//
// Unmarshalling is strict: missing fields, unknown variant tags, wrong
// color length and out-of-range numbers are reported as *errors.Error.
// The lenient, never-failing decode used at the boundary lives in package
// codec.
//
// The zero value of ExchangeFormat and ExchangeableConfig is the empty
// document.
package schema
