// Package capture turns a recorded browser session into a submitted
// workflow-generation task.
package capture

import "strings"

// Options are the save flags parsed by the command line.
type Options struct {
	Model   string
	Session string
	Steps   []string
}

// Request is a normalized save request.
type Request struct {
	Prompt  string
	Model   string
	Session string
	Steps   []string
}

// NormalizePrompt pulls --session/-s, --model/-m and repeated --step options
// out of the prompt words. A flag only consumes a following non-empty token.
// Steps given as options come before steps found in the prompt.
func NormalizePrompt(parts []string, opts Options) Request {
	req := Request{
		Model:   opts.Model,
		Session: opts.Session,
		Steps:   append([]string(nil), opts.Steps...),
	}

	words := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		tok := parts[i]
		hasValue := i+1 < len(parts) && parts[i+1] != ""

		switch {
		case (tok == "--session" || tok == "-s") && hasValue:
			req.Session = parts[i+1]
		case (tok == "--model" || tok == "-m") && hasValue:
			req.Model = parts[i+1]
		case tok == "--step" && hasValue:
			req.Steps = append(req.Steps, parts[i+1])
		default:
			words = append(words, tok)
			continue
		}
		i++
	}

	req.Prompt = strings.TrimSpace(strings.Join(words, " "))
	if len(req.Steps) == 0 {
		req.Steps = nil
	}
	return req
}

// UserError is a failure the user can fix. Hint says how.
type UserError struct {
	Message string
	Hint    string
}

func (e *UserError) Error() string {
	return e.Message
}

// Remediation returns the hint shown under the error.
func (e *UserError) Remediation() string {
	return e.Hint
}
