package domain

import "time"

// BeginningOfTime is the watermark of an empty checkpoint store.
// Sources treat it as "no since filter".
var BeginningOfTime = time.Unix(0, 0).UTC()

// ItemSummary is one entry of a listing page, before its comments are resolved.
type ItemSummary struct {
	// ID is the tracker's stable numeric identity for the issue.
	ID uint64

	// Number is the per-repository issue number used to address comments.
	Number int

	// Title is the issue title.
	Title string

	// Body is the issue description. Empty when the issue has none.
	Body string

	// UpdatedAt is the tracker's last update time for the issue.
	UpdatedAt time.Time

	// IsPullRequest marks issues that are pull request conversations.
	IsPullRequest bool
}

// Item is a fully hydrated issue: the summary plus its ordered comments.
// Items are built fresh for each run and never mutated after construction.
type Item struct {
	ID        uint64
	Number    int
	Title     string
	Body      string
	UpdatedAt time.Time
	SubItems  []SubItem
}

// SubItem is a comment owned by exactly one Item.
type SubItem struct {
	Author  string
	Content string
}

// NewItem hydrates a summary with its comments.
func NewItem(summary ItemSummary, subItems []SubItem) Item {
	if subItems == nil {
		subItems = []SubItem{}
	}
	return Item{
		ID:        summary.ID,
		Number:    summary.Number,
		Title:     summary.Title,
		Body:      summary.Body,
		UpdatedAt: summary.UpdatedAt,
		SubItems:  subItems,
	}
}

// Document is the projection of an Item written to the search sink.
// The sink keys documents by ID.
type Document struct {
	ID       uint64            `json:"id"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Comments []DocumentComment `json:"comments"`
}

// DocumentComment is the projection of a SubItem.
type DocumentComment struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Project converts an item into its search document.
func Project(item Item) Document {
	comments := make([]DocumentComment, len(item.SubItems))
	for i, s := range item.SubItems {
		comments[i] = DocumentComment{Author: s.Author, Content: s.Content}
	}
	return Document{
		ID:       item.ID,
		Title:    item.Title,
		Body:     item.Body,
		Comments: comments,
	}
}
