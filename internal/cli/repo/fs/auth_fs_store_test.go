package fs

import (
	"os"
	"path/filepath"
	"testing"

	clirepo "MedMonitor/internal/cli/repo"
)

func newStore(t *testing.T) AuthFSStore {
	t.Helper()
	return AuthFSStore{Dir: t.TempDir()}
}

func TestAuthFSStore_SaveLoad_Pair_TrimsWhitespace(t *testing.T) {
	st := newStore(t)
	if err := st.SaveTokens(clirepo.TokenPair{Access: "a1", Refresh: "r1"}); err != nil {
		t.Fatalf("save pair: %v", err)
	}
	// Дозапишем вручную лишние пробелы в конец файла, чтобы проверить trim
	p := filepath.Join(st.Dir, "access_token")
	f, _ := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o600)
	_, _ = f.WriteString("  \r\n")
	_ = f.Close()

	pair, err := st.LoadTokens()
	if err != nil {
		t.Fatalf("load pair: %v", err)
	}
	if pair.Access != "a1" || pair.Refresh != "r1" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestAuthFSStore_SaveTokens_RejectsPartialPair(t *testing.T) {
	st := newStore(t)
	if err := st.SaveTokens(clirepo.TokenPair{Access: "a1"}); err == nil {
		t.Fatal("expected error for pair without refresh token")
	}
	if err := st.SaveTokens(clirepo.TokenPair{Refresh: "r1"}); err == nil {
		t.Fatal("expected error for pair without access token")
	}
}

func TestAuthFSStore_LoadTokens_PartialOnDiskMeansLoggedOut(t *testing.T) {
	st := newStore(t)
	// только access на диске — пара невалидна, считаем что сессии нет
	_ = os.WriteFile(filepath.Join(st.Dir, "access_token"), []byte("a1"), 0o600)

	pair, err := st.LoadTokens()
	if err != nil {
		t.Fatalf("load pair: %v", err)
	}
	if pair.Access != "" || pair.Refresh != "" {
		t.Fatalf("partial pair must load as empty, got %+v", pair)
	}
	if st.AccessToken() != "" {
		t.Fatalf("AccessToken must be empty for partial pair")
	}
}

func TestAuthFSStore_Clear_RemovesEverything(t *testing.T) {
	st := newStore(t)
	if err := st.SaveTokens(clirepo.TokenPair{Access: "a1", Refresh: "r1"}); err != nil {
		t.Fatalf("save pair: %v", err)
	}
	if err := st.SaveUser([]byte(`{"id":1}`)); err != nil {
		t.Fatalf("save user: %v", err)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	pair, err := st.LoadTokens()
	if err != nil || pair.Access != "" || pair.Refresh != "" {
		t.Fatalf("tokens must be gone after clear: %+v, %v", pair, err)
	}
	u, err := st.LoadUser()
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u != nil {
		t.Fatalf("user cache must be gone after clear, got %q", u)
	}

	// повторный clear — не ошибка
	if err := st.Clear(); err != nil {
		t.Fatalf("second clear must be a no-op, got %v", err)
	}
}

func TestAuthFSStore_UserCache_RoundTrip(t *testing.T) {
	st := newStore(t)
	raw := []byte(`{"id":7,"email":"a@b.c"}`)
	if err := st.SaveUser(raw); err != nil {
		t.Fatalf("save user: %v", err)
	}
	got, err := st.LoadUser()
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("user cache mismatch: %q", got)
	}
}
