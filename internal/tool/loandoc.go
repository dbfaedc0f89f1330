package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoanDoc generates lending documents from named templates and returns the
// identifier of the generated file.
type LoanDoc struct {
	dir       string
	templates map[string]string
}

// NewLoanDoc creates the createLoanDoc tool. Generated documents land in
// dir; an empty dir falls back to the system temp directory.
func NewLoanDoc(dir string) *LoanDoc {
	if dir == "" {
		dir = os.TempDir()
	}
	return &LoanDoc{
		dir: dir,
		templates: map[string]string{
			"preapproval_letter": "PRE-APPROVAL LETTER\nBorrower: {{borrower}}\nIssued: {{date}}\nThis letter confirms conditional pre-approval subject to underwriting.",
			"rate_lock":          "RATE LOCK AGREEMENT\nBorrower: {{borrower}}\nLocked: {{date}}\nThe quoted rate is locked for 45 calendar days.",
			"closing_disclosure": "CLOSING DISCLOSURE\nBorrower: {{borrower}}\nPrepared: {{date}}\nFinal loan terms and closing costs as disclosed.",
		},
	}
}

func (t *LoanDoc) Schema() Schema {
	return Schema{
		Name:        "createLoanDoc",
		Description: "Generate or fill a lending document and return the file_id.",
		Parameters: map[string]Param{
			"borrowerId": {Type: "string"},
			"templateId": {Type: "string"},
		},
		Required: []string{"borrowerId", "templateId"},
	}
}

func (t *LoanDoc) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params struct {
		BorrowerID string `json:"borrowerId"`
		TemplateID string `json:"templateId"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if params.BorrowerID == "" || params.TemplateID == "" {
		return "", fmt.Errorf("borrowerId and templateId are required")
	}

	tmpl, ok := t.templates[params.TemplateID]
	if !ok {
		return "", fmt.Errorf("unknown template %q", params.TemplateID)
	}

	body := strings.NewReplacer(
		"{{borrower}}", params.BorrowerID,
		"{{date}}", time.Now().Format("2006-01-02"),
	).Replace(tmpl)

	fileID := "file_" + uuid.NewString()
	path := filepath.Join(t.dir, fileID+".txt")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return fileID, nil
}
