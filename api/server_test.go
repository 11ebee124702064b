package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"wordguess/db"
	"wordguess/logic"
	"wordguess/models"
	"wordguess/words"
)

func testBank() words.Bank {
	return words.Bank{
		models.Beginner:     {"animals": {"cat"}},
		models.Intermediate: {"animals": {"tiger"}},
		models.Advanced:     {"animals": {"hyena"}},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *db.Store) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	srv := New(store, testBank(), rand.New(rand.NewSource(1)), "")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})
	return ts, store
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func startRound(t *testing.T, c *http.Client, base, difficulty string) string {
	t.Helper()
	resp, err := c.PostForm(base+"/start", url.Values{"difficulty": {difficulty}})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status %d: %s", resp.StatusCode, body)
	}
	return body
}

func guess(t *testing.T, c *http.Client, base, letter string) (int, GuessResponse) {
	t.Helper()
	resp, err := c.PostForm(base+"/guess", url.Values{"letter": {letter}})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out GuessResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode guess: %v", err)
		}
	}
	return resp.StatusCode, out
}

func TestWelcome(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	for _, d := range []string{"Beginner", "Intermediate", "Advanced"} {
		if !strings.Contains(body, d) {
			t.Errorf("welcome page is missing %s", d)
		}
	}
}

func TestStart_InvalidDifficulty(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	resp, err := c.PostForm(ts.URL+"/start", url.Values{"difficulty": {"expert"}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNoRound(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	resp, err := c.Get(ts.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 from /state, got %d", resp.StatusCode)
	}

	if status, _ := guess(t, c, ts.URL, "a"); status != http.StatusNotFound {
		t.Errorf("expected 404 from /guess, got %d", status)
	}
}

func TestGuestWinsRound(t *testing.T) {
	ts, store := newTestServer(t)
	c := newClient(t)

	page := startRound(t, c, ts.URL, "beginner")
	if !strings.Contains(page, "_ _ _") || !strings.Contains(page, "img3.png") {
		t.Errorf("gameplay page missing board or frame:\n%s", page)
	}

	for i, l := range []string{"c", "a", "t"} {
		status, resp := guess(t, c, ts.URL, l)
		if status != http.StatusOK {
			t.Fatalf("guess %s: status %d", l, status)
		}
		if resp.Outcome.Status != models.Correct || len(resp.Outcome.Positions) != 1 || resp.Outcome.Positions[0] != i {
			t.Errorf("guess %s: unexpected outcome %+v", l, resp.Outcome)
		}
	}

	resp, err := c.Get(ts.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	var view models.RoundView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if view.Status != models.Won || view.Word != "cat" || view.Board != "c a t" {
		t.Errorf("unexpected final view %+v", view)
	}

	if status, _ := guess(t, c, ts.URL, "z"); status != http.StatusConflict {
		t.Errorf("expected 409 after the round ended, got %d", status)
	}

	// Guests are not recorded.
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats[0].Played != 0 {
		t.Errorf("guest round was recorded: %+v", stats[0])
	}
}

func TestGuessOutcomes(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	startRound(t, c, ts.URL, "Beginner")

	_, resp := guess(t, c, ts.URL, "5")
	if resp.Outcome.Status != models.Rejected || resp.State.WrongCount != 0 {
		t.Errorf("expected rejected, got %+v", resp)
	}
	_, resp = guess(t, c, ts.URL, "x")
	if resp.Outcome.Status != models.Wrong || resp.State.WrongCount != 1 {
		t.Errorf("expected wrong, got %+v", resp)
	}
	if len(resp.Cues) != 1 || resp.Cues[0] != logic.CueWrong {
		t.Errorf("unexpected cues %v", resp.Cues)
	}
	_, resp = guess(t, c, ts.URL, "X")
	if resp.Outcome.Status != models.Repeat || resp.State.WrongCount != 1 {
		t.Errorf("expected repeat, got %+v", resp)
	}
	if resp.State.Guesses != "Guesses: x" {
		t.Errorf("unexpected guesses text %q", resp.State.Guesses)
	}
}

func TestPlayerLosesRoundAndIsRecorded(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	resp, err := c.PostForm(ts.URL+"/register", url.Values{"username": {"ada"}, "password": {"pw"}})
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	resp, err = c.PostForm(ts.URL+"/login", url.Values{"username": {"ada"}, "password": {"pw"}})
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Signed in as ada") {
		t.Fatalf("login did not stick:\n%s", body)
	}

	startRound(t, c, ts.URL, "advanced")
	var last GuessResponse
	for _, l := range []string{"b", "c", "d", "f", "g"} {
		_, last = guess(t, c, ts.URL, l)
	}
	if !last.Outcome.GameOver || last.State.Status != models.Lost || last.State.Word != "hyena" {
		t.Errorf("unexpected final guess %+v", last)
	}
	if len(last.Cues) != 2 || last.Cues[1] != logic.CueGameOver {
		t.Errorf("expected game over cue, got %v", last.Cues)
	}

	resp, err = c.Get(ts.URL + "/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "<td>ada</td><td>0</td><td>N/A</td><td>1</td>") {
		t.Errorf("leaderboard missing ada:\n%s", body)
	}

	resp, err = c.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	var stats []db.DifficultyStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(stats) != 3 || stats[2].Played != 1 || stats[2].MeanWrong != 5 {
		t.Errorf("unexpected stats %+v", stats)
	}

	resp, err = c.Get(ts.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	var history []db.RoundRecord
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(history) != 1 || history[0].Word != "hyena" || history[0].Won {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	resp, err := c.PostForm(ts.URL+"/login", url.Values{"username": {"nobody"}, "password": {"pw"}})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized || !strings.Contains(body, "Invalid credentials") {
		t.Errorf("expected 401 with error, got %d", resp.StatusCode)
	}

	resp, err = c.Get(ts.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 from /history, got %d", resp.StatusCode)
	}
}

func TestWebSocketGuess(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	startRound(t, c, ts.URL, "intermediate")

	dialer := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() wsMessage {
		t.Helper()
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg wsMessage
		var state models.RoundView
		msg.State = &state
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	}

	if err := conn.WriteJSON(wsMessage{Action: "guess", Payload: "t"}); err != nil {
		t.Fatal(err)
	}
	msg := read()
	state := msg.State.(*models.RoundView)
	if msg.Action != "state" || msg.Outcome == nil || msg.Outcome.Status != models.Correct {
		t.Fatalf("unexpected message %+v", msg)
	}
	if state.Board != "t _ _ _ _" || state.Frame != 13 {
		t.Errorf("unexpected state %+v", state)
	}

	for _, l := range []string{"i", "g", "e", "r"} {
		conn.WriteJSON(wsMessage{Action: "guess", Payload: l})
		msg = read()
	}
	if !msg.Outcome.Complete || msg.State.(*models.RoundView).Status != models.Won {
		t.Errorf("expected a won round, got %+v", msg)
	}

	conn.WriteJSON(wsMessage{Action: "guess", Payload: "z"})
	if msg = read(); msg.Action != "error" {
		t.Errorf("expected error after the round ended, got %+v", msg)
	}
}

func signIn(t *testing.T, c *http.Client, base, username, password string) string {
	t.Helper()
	resp, err := c.PostForm(base+"/register", url.Values{"username": {strings.TrimSpace(username)}, "password": {password}})
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	resp, err = c.PostForm(base+"/login", url.Values{"username": {username}, "password": {password}})
	if err != nil {
		t.Fatal(err)
	}
	return readBody(t, resp)
}

func winCat(t *testing.T, c *http.Client, base string) {
	t.Helper()
	startRound(t, c, base, "beginner")
	for _, l := range []string{"c", "a", "t"} {
		if status, _ := guess(t, c, base, l); status != http.StatusOK {
			t.Fatalf("guess %s: status %d", l, status)
		}
	}
}

func TestLogin_PaddedUsernameRecordsUnderStoredName(t *testing.T) {
	ts, store := newTestServer(t)
	c := newClient(t)
	if body := signIn(t, c, ts.URL, " ada ", "pw"); !strings.Contains(body, "Signed in as ada") {
		t.Fatalf("login did not stick:\n%s", body)
	}
	winCat(t, c, ts.URL)

	rounds, err := store.PlayerRounds(context.Background(), "ada", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 1 || !rounds[0].Won {
		t.Errorf("expected one won round for ada, got %+v", rounds)
	}
}

func TestForgedSessionCookieIsGuest(t *testing.T) {
	ts, store := newTestServer(t)
	signIn(t, newClient(t), ts.URL, "ada", "secret")

	c := newClient(t)
	base, _ := url.Parse(ts.URL)
	c.Jar.SetCookies(base, []*http.Cookie{
		{Name: sessionCookie, Value: "ada", Path: "/"},
		{Name: "user", Value: "ada", Path: "/"},
	})
	winCat(t, c, ts.URL)

	rounds, err := store.PlayerRounds(context.Background(), "ada", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 0 {
		t.Errorf("forged cookie recorded rounds for ada: %+v", rounds)
	}

	resp, err := c.Get(ts.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 from /history, got %d", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	signIn(t, c, ts.URL, "ada", "pw")

	resp, err := c.Get(ts.URL + "/logout")
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); strings.Contains(body, "Signed in as") {
		t.Errorf("still signed in after logout:\n%s", body)
	}
	resp, err = c.Get(ts.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestStateFragment(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	winCat(t, c, ts.URL)

	resp, err := c.Get(ts.URL + "/state?format=html")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	if strings.Contains(body, "<nav>") {
		t.Errorf("fragment includes the page layout:\n%s", body)
	}
	for _, want := range []string{`data-status="won"`, "c a t", "You won!"} {
		if !strings.Contains(body, want) {
			t.Errorf("fragment missing %q:\n%s", want, body)
		}
	}
}

func TestMalformedFormIsBadRequest(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)
	startRound(t, c, ts.URL, "beginner")

	for _, path := range []string{"/start", "/guess", "/login", "/register"} {
		resp, err := c.Post(ts.URL+path, "application/x-www-form-urlencoded", strings.NewReader("letter=%zz"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}
}

func TestStartHoldsBoundedRounds(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer store.Close()
	srv := New(store, testBank(), rand.New(rand.NewSource(1)), "")
	srv.rounds.capacity = 10
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	for i := 0; i < 50; i++ {
		resp, err := http.PostForm(ts.URL+"/start", url.Values{"difficulty": {"beginner"}})
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	if n := srv.rounds.size(); n != 10 {
		t.Errorf("expected 10 rounds held, got %d", n)
	}
}
