package narrative

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultRelatedVocabulary marks reasons that belong to one compound action
var DefaultRelatedVocabulary = []string{"attack", "damage", "initiative"}

// Classifier decides whether the roll requests of one narrator turn belong
// to a single compound action that must be fully resolved before forwarding.
type Classifier interface {
	Related(reasons []string) bool
}

// KeywordClassifier treats two or more reasons as related when every one
// contains a vocabulary word (case-insensitive).
type KeywordClassifier struct {
	Vocabulary []string
}

// NewKeywordClassifier creates a classifier over the default vocabulary
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{Vocabulary: DefaultRelatedVocabulary}
}

// Related implements Classifier
func (k *KeywordClassifier) Related(reasons []string) bool {
	if len(reasons) < 2 {
		return false
	}

	for _, reason := range reasons {
		lower := strings.ToLower(reason)
		matched := false
		for _, word := range k.Vocabulary {
			if strings.Contains(lower, word) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// ExprClassifier evaluates a boolean expr-lang expression against
// {reasons []string, count int}, for example:
//
//	count > 1 && all(reasons, {# matches "(?i)attack|damage|initiative"})
type ExprClassifier struct {
	source  string
	program *vm.Program
}

type classifierEnv struct {
	Reasons []string `expr:"reasons"`
	Count   int      `expr:"count"`
}

// NewExprClassifier compiles the expression once
func NewExprClassifier(source string) (*ExprClassifier, error) {
	program, err := expr.Compile(source, expr.Env(classifierEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid roll grouping expression: %w", err)
	}

	return &ExprClassifier{source: source, program: program}, nil
}

// Related implements Classifier. Evaluation errors count as unrelated.
func (e *ExprClassifier) Related(reasons []string) bool {
	result, err := vm.Run(e.program, classifierEnv{Reasons: reasons, Count: len(reasons)})
	if err != nil {
		return false
	}
	related, _ := result.(bool)
	return related
}

// String returns the source expression
func (e *ExprClassifier) String() string {
	return e.source
}

// NewClassifier returns an ExprClassifier for a non-empty expression and the keyword classifier otherwise
func NewClassifier(source string) (Classifier, error) {
	if strings.TrimSpace(source) == "" {
		return NewKeywordClassifier(), nil
	}
	return NewExprClassifier(source)
}

// Grouping is the result of classifying a turn's roll requests.
// Related requests resolve together; Independent ones are forwarded as soon as each is rolled.
type Grouping struct {
	Related     []RollRequest `json:"related,omitempty"`
	Independent []RollRequest `json:"independent,omitempty"`
}

// GroupRolls classifies the roll requests found in fragments
func GroupRolls(fragments []Fragment, classifier Classifier) Grouping {
	requests := RollRequests(fragments)
	if len(requests) == 0 {
		return Grouping{}
	}

	reasons := make([]string, len(requests))
	for i, r := range requests {
		reasons[i] = r.Reason
	}

	if classifier != nil && classifier.Related(reasons) {
		return Grouping{Related: requests}
	}
	return Grouping{Independent: requests}
}
