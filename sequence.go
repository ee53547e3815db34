package preprocessor

// newSequenceTask creates a fresh SEQUENCE task for itemID whose internal
// queue initially holds a single sub-task: the VALUE_SEQ task that triggered
// its creation (queue.Enqueue, when no SEQUENCE yet exists for itemID).
func newSequenceTask(itemID uint64, first *Task) *Task {
	return &Task{
		ItemID: itemID,
		Kind:   KindSequence,
		sequence: &sequencePayload{
			itemID: itemID,
			subs:   []*Task{first},
		},
	}
}

// appendSub appends a new VALUE_SEQ sub-task to the tail of seq's internal
// queue. Called while a SEQUENCE for this item_id is already in flight or
// pending; it never signals new runnable work since seq is already
// scheduled.
func appendSub(seq *Task, sub *Task) {
	seq.sequence.subs = append(seq.sequence.subs, sub)
}

// peekHeadSub returns the sub-task at the head of seq's internal queue
// without removing it. It panics if the queue is empty: an empty SEQUENCE
// reaching peekHeadSub is a programming error (SEQUENCE with empty internal
// queue), since a SEQUENCE is removed from `sequences`/pending the moment
// its last sub-task is popped.
func peekHeadSub(seq *Task) *Task {
	if len(seq.sequence.subs) == 0 {
		panic(ErrEmptySequence)
	}
	return seq.sequence.subs[0]
}

// popHeadSub removes and returns the head sub-task of seq's internal queue.
func popHeadSub(seq *Task) *Task {
	if len(seq.sequence.subs) == 0 {
		panic(ErrEmptySequence)
	}
	head := seq.sequence.subs[0]
	seq.sequence.subs = seq.sequence.subs[1:]
	return head
}

// isSequenceEmpty reports whether seq's internal queue has drained.
func isSequenceEmpty(seq *Task) bool {
	return len(seq.sequence.subs) == 0
}
