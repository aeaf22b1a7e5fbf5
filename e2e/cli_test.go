package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expoprize/prizewheel-go/internal/api"
	"github.com/expoprize/prizewheel-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "prizewheel-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/prizewheel")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		Storage:             app.Storage,
		RegistrationService: app.RegistrationService,
		Guard:               app.Guard,
		SpinManager:         app.SpinManager,
		RaffleService:       app.RaffleService,
		HubManager:          app.HubManager,
		Clock:               app.Clock,
		Random:              app.Random,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			app.SpinManager.CancelAll()
			app.RaffleService.CancelAll()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type companyResponse struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

type prizeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type participantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	PrizeName string `json:"prize_name"`
}

type verifyResponse struct {
	SpinToken string `json:"spin_token"`
}

type spinStateResponse struct {
	Phase       string `json:"phase"`
	WinnerIndex int    `json:"winner_index"`
	PrizeName   string `json:"prize_name"`
}

type raffleResponse struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

type eligibleResponse struct {
	EligibleCount int `json:"eligible_count"`
}

type drawStateResponse struct {
	DrawID    string `json:"draw_id"`
	Phase     string `json:"phase"`
	Countdown int    `json:"countdown"`
	Winner    *struct {
		ParticipantName string `json:"participant_name"`
		Phone           string `json:"phone"`
	} `json:"winner"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_CompanySetup(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create company
	output, err := cli.run("company", "create", "--name", "Acme Corp", "--event", "ev-1")
	require.NoError(t, err, "output: %s", output)

	var company companyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &company))
	assert.Equal(t, "Acme Corp", company.Name)
	assert.True(t, strings.HasPrefix(company.ID, "co_"))

	// Get company
	output, err = cli.run("company", "get", company.ID)
	require.NoError(t, err, "output: %s", output)

	var fetched companyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fetched))
	assert.Equal(t, company.ID, fetched.ID)

	// Add prizes and list them in wheel order
	output, err = cli.run("prize", "create", company.ID, "--name", "Gold hamper", "--position", "0")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("prize", "create", company.ID, "--name", "Sticker pack", "--position", "1")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("prize", "list", company.ID)
	require.NoError(t, err, "output: %s", output)

	var prizes []prizeResponse
	require.NoError(t, json.Unmarshal([]byte(output), &prizes))
	require.Len(t, prizes, 2)
	assert.Equal(t, "Gold hamper", prizes[0].Name)
	assert.Equal(t, "Sticker pack", prizes[1].Name)
}

func TestCLI_FullWheelFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Set up a company with two prizes and a collaborator
	output, err := cli.run("company", "create", "--name", "Acme Corp", "--event", "ev-1")
	require.NoError(t, err, "output: %s", output)
	var company companyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &company))

	for i, name := range []string{"Gold hamper", "Sticker pack"} {
		output, err = cli.run("prize", "create", company.ID, "--name", name, "--position", fmt.Sprintf("%d", i))
		require.NoError(t, err, "output: %s", output)
	}

	output, err = cli.run("company", "add-collaborator", company.ID, "--name", "Bob", "--code", "wheel42")
	require.NoError(t, err, "output: %s", output)

	// Register a participant
	output, err = cli.run("wheel", "register", company.ID, "--name", "Alice", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)
	var participant participantResponse
	require.NoError(t, json.Unmarshal([]byte(output), &participant))
	assert.True(t, strings.HasPrefix(participant.ID, "pt_"))

	// A second registration with the same email is rejected
	output, err = cli.run("wheel", "register", company.ID, "--name", "Alice", "--email", "ALICE@example.com")
	assert.Error(t, err, "duplicate email should be rejected")
	assert.Contains(t, strings.ToLower(output), "participated")

	// Verify the collaborator code, which saves the spin token
	output, err = cli.run("wheel", "verify-code", company.ID, "--code", "wheel42")
	require.NoError(t, err, "output: %s", output)
	var verify verifyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &verify))
	assert.True(t, strings.HasPrefix(verify.SpinToken, "spin_"))

	// Spin
	output, err = cli.run("wheel", "spin", company.ID, "--participant", participant.ID)
	require.NoError(t, err, "output: %s", output)
	var state spinStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "armed", state.Phase)
	t.Logf("Spin armed, winner index: %d", state.WinnerIndex)

	// Poll until the animation settles
	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		output, err = cli.run("wheel", "status", company.ID)
		require.NoError(t, err, "output: %s", output)
		require.NoError(t, json.Unmarshal([]byte(output), &state))
		if state.Phase == "settled" {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}
	require.Equal(t, "settled", state.Phase, "spin did not settle in time")
	assert.NotEmpty(t, state.PrizeName)
	t.Logf("Spin settled on %q", state.PrizeName)

	// The prize shows on the participant record
	output, err = cli.run("wheel", "participants", company.ID)
	require.NoError(t, err, "output: %s", output)
	var participants []participantResponse
	require.NoError(t, json.Unmarshal([]byte(output), &participants))
	require.Len(t, participants, 1)
	assert.Equal(t, state.PrizeName, participants[0].PrizeName)

	// The token was consumed: spinning again needs a fresh verification
	output, err = cli.run("wheel", "spin", company.ID, "--participant", participant.ID)
	assert.Error(t, err, "consumed token should not authorize another spin")

	// Export the history
	csvFile := filepath.Join(t.TempDir(), "history.csv")
	output, err = cli.run("wheel", "export", company.ID, "--file", csvFile)
	require.NoError(t, err, "output: %s", output)

	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alice")
	assert.Contains(t, string(data), state.PrizeName)
}

func TestCLI_RaffleDrawFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a raffle and enter two participants
	output, err := cli.run("raffle", "create", "--event", "ev-1", "--name", "Main raffle")
	require.NoError(t, err, "output: %s", output)
	var raffle raffleResponse
	require.NoError(t, json.Unmarshal([]byte(output), &raffle))
	assert.True(t, strings.HasPrefix(raffle.ID, "rf_"))

	for _, name := range []string{"Alice", "Bob"} {
		output, err = cli.run("raffle", "enter", raffle.ID,
			"--name", name, "--email", strings.ToLower(name)+"@example.com", "--phone", "(11) 98765-4321")
		require.NoError(t, err, "output: %s", output)
	}

	output, err = cli.run("raffle", "eligible", raffle.ID)
	require.NoError(t, err, "output: %s", output)
	var eligible eligibleResponse
	require.NoError(t, json.Unmarshal([]byte(output), &eligible))
	assert.Equal(t, 2, eligible.EligibleCount)

	// Start the countdown draw
	output, err = cli.run("raffle", "draw", raffle.ID)
	require.NoError(t, err, "output: %s", output)
	var state drawStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "countdown", state.Phase)
	assert.Equal(t, 5, state.Countdown)

	// Poll until the countdown finishes and a winner is drawn
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		output, err = cli.run("raffle", "draw-status", state.DrawID)
		require.NoError(t, err, "output: %s", output)
		require.NoError(t, json.Unmarshal([]byte(output), &state))
		if state.Phase == "complete" {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}
	require.Equal(t, "complete", state.Phase, "draw did not complete in time")
	require.NotNil(t, state.Winner)
	assert.Contains(t, state.Winner.Phone, "****")
	t.Logf("Draw complete, winner: %s", state.Winner.ParticipantName)

	// The winner is recorded and out of the next pool
	output, err = cli.run("raffle", "winners", raffle.ID)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, state.Winner.ParticipantName)

	output, err = cli.run("raffle", "eligible", raffle.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &eligible))
	assert.Equal(t, 1, eligible.EligibleCount)
}

func TestCLI_DrawCancel(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("raffle", "create", "--event", "ev-1", "--name", "Main raffle")
	require.NoError(t, err, "output: %s", output)
	var raffle raffleResponse
	require.NoError(t, json.Unmarshal([]byte(output), &raffle))

	output, err = cli.run("raffle", "enter", raffle.ID, "--name", "Alice", "--email", "alice@example.com")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("raffle", "draw", raffle.ID)
	require.NoError(t, err, "output: %s", output)
	var state drawStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))

	_, err = cli.run("raffle", "draw-cancel", state.DrawID)
	require.NoError(t, err)

	output, err = cli.run("raffle", "draw-status", state.DrawID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "cancelled", state.Phase)
	assert.Nil(t, state.Winner)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Unknown company
	output, err := cli.run("company", "get", "co_missing")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Spin without a token
	output, err = cli.run("company", "create", "--name", "Acme Corp", "--event", "ev-1")
	require.NoError(t, err, "output: %s", output)
	var company companyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &company))

	output, err = cli.run("wheel", "spin", company.ID, "--participant", "pt_missing")
	assert.Error(t, err)
}
