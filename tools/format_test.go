package tools

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/index"
)

func Test_FormatSearchResults_NoMatches(t *testing.T) {
	if got := FormatSearchResults(nil, 0); got != "No matches found." {
		t.Errorf("got %q", got)
	}
}

func Test_FormatSearchResults_WithMatches(t *testing.T) {
	results := []index.ContentSearchResult{
		{
			RelativePath: "main.go",
			Matches: []index.LineMatch{
				{
					LineNumber:    5,
					LineText:      `fmt.Println("hello")`,
					ContextBefore: []string{"func main() {"},
					ContextAfter:  []string{"}"},
				},
			},
		},
	}

	got := FormatSearchResults(results, 1)
	for _, want := range []string{"1 matches in 1 files", "── main.go ──", `5: fmt.Println("hello")`, "  func main() {"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func Test_FormatAuthoredFiles(t *testing.T) {
	files := []gitquery.AuthoredFile{{Path: "src/a.go", LastModified: "3/4/2024"}}

	if got := FormatAuthoredFiles(nil, false); got != "No authored files found." {
		t.Errorf("got %q", got)
	}
	if got := FormatAuthoredFiles(files, false); !strings.Contains(got, "src/a.go  (3/4/2024)") {
		t.Errorf("expected date, got:\n%s", got)
	}
	if got := FormatAuthoredFiles(files, true); strings.Contains(got, "3/4/2024") {
		t.Errorf("nameOnly should omit the date, got:\n%s", got)
	}
}

func Test_FormatFileContent_PadsLineNumbers(t *testing.T) {
	var lines []string
	for i := 1; i <= 12; i++ {
		lines = append(lines, fmt.Sprintf("l%d", i))
	}
	got := FormatFileContent("a.txt", "text", strings.Join(lines, "\n"), 0, 0)
	if !strings.Contains(got, " 1: l1\n") || !strings.Contains(got, "12: l12\n") {
		t.Errorf("unexpected numbering:\n%s", got)
	}
}

func Test_FormatFileContent_OffsetPastEnd(t *testing.T) {
	got := FormatFileContent("a.txt", "text", "one\ntwo", 10, 0)
	if strings.Contains(got, "one") || strings.Contains(got, "two") {
		t.Errorf("expected header only, got:\n%s", got)
	}
}

func Test_FormatError_IncludesDetail(t *testing.T) {
	err := &gitquery.Error{Kind: gitquery.QueryFailed, Message: "git log failed", Detail: "fatal: bad revision"}
	got := FormatError(err)
	if !strings.HasPrefix(got, "Error: QueryFailed") || !strings.HasSuffix(got, "fatal: bad revision") {
		t.Errorf("got %q", got)
	}
}
