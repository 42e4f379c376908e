package console

import (
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

// defaults to no; burns are irreversible
var noYesConstraints = []string{No, Yes}

func Confirm(question string) (bool, error) {
	answer, err := Prompt(question, noYesConstraints...)
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

func Prompt(question string, constraints ...string) (string, error) {
	if len(constraints) == 0 {
		rl, err := readline.New(question)
		if err != nil {
			return "", err
		}
		defer rl.Close()
		return rl.Readline()
	}
	rl, err := readline.New(promptLine(question, constraints))
	if err != nil {
		return "", err
	}
	defer rl.Close()
	response, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return matchConstraint(response, constraints), nil
}

func promptLine(question string, constraints []string) string {
	var prompt strings.Builder
	prompt.WriteString(question)
	prompt.WriteString(" [")
	prompt.WriteString(strings.ToUpper(constraints[0]))
	for i := 1; i < len(constraints); i++ {
		prompt.WriteString("/")
		prompt.WriteString(constraints[i])
	}
	prompt.WriteString("]:")
	return prompt.String()
}

// matchConstraint returns the first constraint on empty or unknown input.
func matchConstraint(response string, constraints []string) string {
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range constraints {
		if normalized == c {
			return normalized
		}
	}
	return constraints[0]
}
