package drill

import (
	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/session"
)

// problemReadyMsg carries the next picked problem, or the picker error.
type problemReadyMsg struct {
	Problem catalog.Problem
	Err     error
}

// gradedMsg carries the committed result of one submission.
type gradedMsg struct {
	Result *session.Result
	Err    error
}
