package domain

// Card is a single flashcard.
type Card struct {
	Front string   `json:"front" jsonschema:"question or cue shown on the front of the card"`
	Back  string   `json:"back" jsonschema:"answer with explanations and examples"`
	Notes string   `json:"notes,omitempty" jsonschema:"optional usage notes or common mistakes"`
	Tags  []string `json:"tags,omitempty" jsonschema:"optional single-word tags"`
}

// Deck is a generated set of flashcards.
type Deck struct {
	Cards []Card `json:"cards" jsonschema:"the generated flashcards"`
}

// Topic is one focus area derived from a free-form deck request.
type Topic struct {
	Name            string `json:"name" jsonschema:"short descriptive name"`
	Description     string `json:"description" jsonschema:"what the cards for this topic should cover"`
	DifficultyLevel string `json:"difficulty_level" jsonschema:"beginner, intermediate or advanced"`
}

// TopicList is the structured answer to a topic evaluation request.
type TopicList struct {
	Topics []Topic `json:"topics" jsonschema:"distinct, non-overlapping topics"`
}

// DistributeCards splits total cards across n topics: each gets total/n and
// the first total%n topics get one extra.
func DistributeCards(total, n int) []int {
	if n <= 0 {
		return nil
	}
	counts := make([]int, n)
	base, rem := total/n, total%n
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts
}
