package expr

import "testing"

func collectTokens(t *testing.T, input string) []Token {
	t.Helper()
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerOperators(t *testing.T) {
	toks := collectTokens(t, `status == "active" and progress >= 50`)

	want := []TokenType{TokenIdent, TokenEq, TokenString, TokenIdent, TokenIdent, TokenGte, TokenNumber}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got type %d, want %d (%+v)", i, toks[i].Type, tt, toks[i])
		}
	}
	if toks[2].Value != "active" {
		t.Errorf("string token value = %q, want %q", toks[2].Value, "active")
	}
}

func TestLexerUnicodeIdent(t *testing.T) {
	toks := collectTokens(t, `进度 == 100`)
	if len(toks) != 3 {
		t.Fatalf("got %d tokens: %+v", len(toks), toks)
	}
	if toks[0].Type != TokenIdent || toks[0].Value != "进度" {
		t.Errorf("got %+v, want ident 进度", toks[0])
	}
}

func TestLexerNumbers(t *testing.T) {
	toks := collectTokens(t, "3.14 - 2")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens: %+v", len(toks), toks)
	}
	if toks[0].Value != "3.14" || toks[0].Type != TokenNumber {
		t.Errorf("got %+v", toks[0])
	}
	if toks[1].Type != TokenMinus {
		t.Errorf("got %+v", toks[1])
	}
}

func TestLexerQuotes(t *testing.T) {
	toks := collectTokens(t, `'single' "with \" escape"`)
	if len(toks) != 2 {
		t.Fatalf("got %d tokens: %+v", len(toks), toks)
	}
	if toks[0].Value != "single" {
		t.Errorf("got %q", toks[0].Value)
	}
	if toks[1].Value != `with " escape` {
		t.Errorf("got %q", toks[1].Value)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	toks := collectTokens(t, `"oops`)
	if len(toks) != 1 || toks[0].Type != TokenError {
		t.Fatalf("expected error token, got %+v", toks)
	}
}
