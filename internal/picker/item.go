package picker

// Score is the result of matching an item's name against a query.
type Score struct {
	// Relevance orders matches; higher is better.
	Relevance int
	// Positions are byte offsets into the item name that matched the query.
	Positions []int
}

// Item is one selectable row. Blank items pad the viewport and never carry
// a payload or score.
type Item[T any] struct {
	Name    string
	Payload T
	Score   *Score
	Blank   bool
}

// NewItem returns an unscored item.
func NewItem[T any](name string, payload T) Item[T] {
	return Item[T]{Name: name, Payload: payload}
}

func blankItem[T any]() Item[T] {
	return Item[T]{Blank: true}
}

// Matched reports whether the item carries a score from the last rescore.
func (i Item[T]) Matched() bool {
	return !i.Blank && i.Score != nil
}
