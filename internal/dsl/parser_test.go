package dsl

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return s
}

func TestParseRunStatement(t *testing.T) {
	s := mustParse(t, `#0x1D + Code_A { Run: "echo hi"; }`)
	if len(s.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(s.Blocks))
	}
	b := s.Blocks[0]
	if len(b.Body) != 1 || b.Body[0].Kind != StmtRun || b.Body[0].Command != "echo hi" {
		t.Fatalf("unexpected body: %+v", b.Body)
	}
}

func TestParseTryRunWithFailure(t *testing.T) {
	s := mustParse(t, `#0x1D { TryRun: "foo": FailRun: "bar"; }`)
	stmt := s.Blocks[0].Body[0]
	if stmt.Kind != StmtTryRun || stmt.Command != "foo" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	if stmt.Failure == nil || stmt.Failure.Kind != StmtRun || stmt.Failure.Command != "bar" {
		t.Fatalf("unexpected failure statement: %+v", stmt.Failure)
	}
}

func TestParseSendWithStringAndKey(t *testing.T) {
	s := mustParse(t, `#0x1D + Code_G { Send: String("hi") + Enter; }`)
	stmt := s.Blocks[0].Body[0]
	if stmt.Kind != StmtSend || len(stmt.SendExprs) != 2 {
		t.Fatalf("unexpected send: %+v", stmt)
	}
	if stmt.SendExprs[0].Kind != SendString || stmt.SendExprs[0].Text != "hi" {
		t.Fatalf("unexpected first expr: %+v", stmt.SendExprs[0])
	}
	if stmt.SendExprs[1].Kind != SendKey || stmt.SendExprs[1].Key.Name != "Enter" {
		t.Fatalf("unexpected second expr: %+v", stmt.SendExprs[1])
	}
}

func TestParseWaitLoopIfMacroCall(t *testing.T) {
	s := mustParse(t, `
		macro GREET {
			Run: "echo hi";
		}
		#0x1D {
			wait(250);
			loop 3 {
				GREET!;
			}
			if now_input(#0x2A) {
				Run: "echo shift";
			} elif now_input(#0x38) {
				Run: "echo alt";
			} else {
				Run: "echo none";
			}
		}
	`)
	if len(s.Macros) != 1 || s.Macros[0].Name != "GREET" {
		t.Fatalf("unexpected macros: %+v", s.Macros)
	}
	body := s.Blocks[0].Body
	if len(body) != 3 {
		t.Fatalf("expected 3 statements, got %d: %+v", len(body), body)
	}
	if body[0].Kind != StmtWait || body[0].WaitMillis != 250 {
		t.Fatalf("unexpected wait: %+v", body[0])
	}
	if body[1].Kind != StmtLoop || body[1].LoopCount != 3 {
		t.Fatalf("unexpected loop: %+v", body[1])
	}
	ifStmt := body[2]
	if ifStmt.Kind != StmtIf {
		t.Fatalf("unexpected if: %+v", ifStmt)
	}
	if len(ifStmt.ElseIfs) != 1 {
		t.Fatalf("expected 1 elif, got %d", len(ifStmt.ElseIfs))
	}
	if !ifStmt.HasElse {
		t.Fatalf("expected an else branch")
	}
}

func TestParseGlobalSetting(t *testing.T) {
	s := mustParse(t, `CLI = "powershell.exe"; #0x1D { wait(1); }`)
	if len(s.GlobalSettings) != 1 || s.GlobalSettings[0].Value != "powershell.exe" {
		t.Fatalf("unexpected global settings: %+v", s.GlobalSettings)
	}
}

func TestParseExtendedPhysicalKey(t *testing.T) {
	s := mustParse(t, `#E0/0x2E { wait(1); }`)
	k := s.Blocks[0].Triggers[0].Keys[0]
	if k.Kind != ExtendedPhysical || k.Code != 0x2E {
		t.Fatalf("unexpected trigger key: %+v", k)
	}
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	_, err := Parse(`#0x1D { Run: "echo hi" }`)
	if err == nil {
		t.Fatal("expected a parse error for missing semicolon")
	}
	var pe *ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseRejectsMissingBrace(t *testing.T) {
	_, err := Parse(`#0x1D { Run: "echo hi";`)
	if err == nil {
		t.Fatal("expected a parse error for missing closing brace")
	}
}

func TestParseRejectsMissingKeyword(t *testing.T) {
	_, err := Parse(`#0x1D { : "echo hi"; }`)
	if err == nil {
		t.Fatal("expected a parse error for a statement missing its keyword")
	}
}

func asParseError(err error, out **ParseError) bool {
	pe, ok := err.(*ParseError)
	if ok {
		*out = pe
	}
	return ok
}

func TestCommentsAreInvisible(t *testing.T) {
	withComments := `
		// greet on Ctrl+G
		#0x1D + Code_G { // inline too
			Send: String("hi") + Enter; // trailing
		}
	`
	stripped := stripComments(withComments)
	a := mustParse(t, withComments)
	b := mustParse(t, stripped)
	if !scriptsEqual(a, b) {
		t.Fatalf("parse(with comments) != parse(stripped):\n%+v\nvs\n%+v", a, b)
	}
}

func stripComments(src string) string {
	var out strings.Builder
	lines := strings.Split(src, "\n")
	for _, line := range lines {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func scriptsEqual(a, b *Script) bool {
	if len(a.Blocks) != len(b.Blocks) || len(a.Macros) != len(b.Macros) || len(a.GlobalSettings) != len(b.GlobalSettings) {
		return false
	}
	for i := range a.Blocks {
		if len(a.Blocks[i].Body) != len(b.Blocks[i].Body) {
			return false
		}
		if len(a.Blocks[i].Triggers) != len(b.Blocks[i].Triggers) {
			return false
		}
	}
	return true
}

func TestBlockCountMatchesTopLevelCombinations(t *testing.T) {
	src := `
		#0x1D + Code_A { Run: "a"; }
		#0x1D + Code_B { Run: "b"; }
		#0x1D + Code_C { Run: "c"; }
	`
	s := mustParse(t, src)
	if len(s.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(s.Blocks))
	}
}
