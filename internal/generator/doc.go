// Package generator produces HTML email documents with a chat model.
//
// A generation runs in one of two modes. In new-document mode the prompt may
// first be rewritten by an enhancement call, reference templates are
// retrieved for it, and the references are appended to the system
// instruction. In edit mode the current document is embedded in the final
// user turn and neither enhancement nor retrieval runs.
//
// The model answer goes through the sanitizer. When the model omits the
// SUBJECT directive a second short call writes one, falling back to a fixed
// placeholder. Enhancement, retrieval and the subject call never fail a
// generation.
package generator
