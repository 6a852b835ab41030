package tesseract

// Unit is a top-level grouping of topics within a subject.
type Unit struct {
	ID   string
	Name string
}

// Topic is a gradable content item within a unit. Only topics with
// ContentFlag set carry content worth attempting.
type Topic struct {
	ID          string
	Name        string
	ContentFlag bool
}

// Question holds one quiz question. Options maps option keys ("a".."d")
// to option text; key order on the wire is not guaranteed.
type Question struct {
	QuestionID string
	Text       string
	Options    map[string]string
}

// QuizAttempt is a server-side quiz session. QuizID is the canonical id
// returned by create-quiz and differs from the topic id used to create
// the attempt; every subsequent call must use QuizID.
type QuizAttempt struct {
	QuizID    string
	Questions []Question
}
