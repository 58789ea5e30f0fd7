package author

// Request describes one batch of problems to author.
type Request struct {
	// Subject is the bank subject, e.g. "高等数学".
	Subject string

	// Chapter optionally narrows the topic within the subject.
	Chapter string

	// Tags are the knowledge tags the problems should practice.
	Tags []string

	// Difficulty is the target difficulty in [0,1].
	Difficulty float64

	// Count is the number of problems to generate in one batch.
	Count int

	// Existing holds question texts already in the bank for these tags.
	// They are shown to the model and enforced by the dedup validator.
	Existing []string
}
