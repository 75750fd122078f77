// docchat TUI - A terminal interface for chatting with your documents.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docchat-tui/internal/api"
	"github.com/jeranaias/docchat-tui/internal/chat"
	"github.com/jeranaias/docchat-tui/internal/cli"
	"github.com/jeranaias/docchat-tui/internal/config"
	"github.com/jeranaias/docchat-tui/internal/logging"
	"github.com/jeranaias/docchat-tui/internal/registry"
	"github.com/jeranaias/docchat-tui/internal/storage"
	"github.com/jeranaias/docchat-tui/internal/transcript"
	chatview "github.com/jeranaias/docchat-tui/internal/ui/chat"
	"github.com/jeranaias/docchat-tui/internal/ui/components"
	"github.com/jeranaias/docchat-tui/internal/ui/styles"
	uploadview "github.com/jeranaias/docchat-tui/internal/ui/upload"
	"github.com/jeranaias/docchat-tui/internal/uploader"
	"github.com/jeranaias/docchat-tui/internal/watcher"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async delivery of transcript, registry and
// upload updates into the Bubble Tea event loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		os.Exit(cli.Fail(err))
	}

	cfg, err := config.Load()
	if err != nil {
		os.Exit(cli.Fail(err))
	}

	// Plain commands log to stderr when debugging; the TUI owns the terminal
	// and logs to a file instead.
	if cmd != cli.CmdTUI && cfg.Log.Level == "debug" {
		logging.SetupStderr(cfg.Log.Level)
	}

	switch cmd {
	case cli.CmdAsk:
		os.Exit(cli.RunAsk(cfg, args))
	case cli.CmdChat:
		os.Exit(cli.RunChat(cfg, args))
	case cli.CmdUpload:
		os.Exit(cli.RunUpload(cfg, args))
	case cli.CmdFiles:
		os.Exit(cli.RunFiles(cfg, args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(cfg, args)
	}
}

// runTUI wires the application together and starts the TUI.
func runTUI(cfg *config.Config, args *cli.Args) {
	if cfg.Log.Path != "" {
		logFile, err := logging.Setup(cfg.Log.Path, cfg.Log.Level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot open log file: %v\n", err)
		} else {
			defer logFile.Close()
		}
	}
	logger := logging.Logger()

	baseURL := cfg.API.BaseURL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: baseURL,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})

	store := transcript.NewStore()
	session := chat.NewSession(client, store, logger)
	reg := registry.NewCache(client)

	// Upload history persists across runs. A broken database degrades to an
	// in-memory session rather than blocking startup.
	var outcomeLog uploader.Log
	var outcomeStore *storage.OutcomeStore
	if dir, err := config.Dir(); err == nil {
		outcomeStore, err = storage.Open(filepath.Join(dir, "outcomes.db"))
		if err != nil {
			logger.Warn("cannot open upload history", "error", err)
		} else {
			outcomeLog = outcomeStore
			defer outcomeStore.Close()
		}
	}

	orch := uploader.NewOrchestrator(client, reg, outcomeLog, logger)
	if outcomeStore != nil {
		if recent, err := outcomeStore.Recent(cfg.Upload.HistoryLimit); err == nil {
			orch.Seed(recent)
		}
	}

	// Observers push snapshots into the event loop. They fire synchronously
	// from whatever goroutine mutated the state, so delivery goes through
	// the guarded program reference. Transcript updates arrive per token and
	// are coalesced to ~30fps so fast streams don't flood the renderer.
	notifier := &transcriptNotifier{store: store, session: session, deliver: send}
	store.Subscribe(notifier.notify)
	reg.Subscribe(func() {
		send(uploadview.FilesMsg{Files: reg.Files()})
	})
	orch.Subscribe(func() {
		send(uploadview.OutcomesMsg{Outcomes: orch.Results()})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Upload.DropDir != "" {
		w := watcher.New(cfg.Upload.DropDir, func(paths []string) {
			var files []uploader.File
			for _, path := range paths {
				file, err := uploader.FromPath(path)
				if err != nil {
					logger.Warn("skipping dropped file", "path", path, "error", err)
					continue
				}
				files = append(files, file)
			}
			orch.UploadBatch(ctx, files)
		}, logger)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("drop directory watcher stopped", "error", err)
			}
		}()
	}

	theme := styles.New(cfg.UI.Theme)
	m := newAppModel(theme, cfg, session, client, orch)

	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Prime the document library in the background.
	go func() {
		if err := reg.Refresh(ctx); err != nil {
			logger.Warn("initial file listing failed", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docchat: %v\n", err)
		os.Exit(1)
	}
}

// send delivers a message to the running program, if any.
func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// flushInterval caps transcript redraws at roughly 30 frames per second.
const flushInterval = 33 * time.Millisecond

// transcriptNotifier coalesces per-token transcript notifications into
// snapshot messages. The store is not safe to read while the streaming
// goroutine writes it, so the snapshot is taken inside notify — on the
// goroutine that just mutated the store — and the timer only delivers the
// latest snapshot. The final notification always overwrites the snapshot
// before the pending flush fires, so the last delivery carries the final
// state.
type transcriptNotifier struct {
	store   *transcript.Store
	session *chat.Session
	deliver func(tea.Msg)

	mu       sync.Mutex
	pending  bool
	snapshot chatview.TranscriptMsg
}

func (n *transcriptNotifier) notify() {
	snap := chatview.TranscriptMsg{Turns: n.store.Turns(), Streaming: n.session.Streaming()}

	n.mu.Lock()
	n.snapshot = snap
	if n.pending {
		n.mu.Unlock()
		return
	}
	n.pending = true
	n.mu.Unlock()
	time.AfterFunc(flushInterval, n.flush)
}

func (n *transcriptNotifier) flush() {
	n.mu.Lock()
	n.pending = false
	snap := n.snapshot
	n.mu.Unlock()
	n.deliver(snap)
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application view.
type State int

const (
	StateWelcome State = iota // Startup screen
	StateChat                 // Conversation view
	StateUpload               // Document library view
)

// appModel is the main Bubble Tea model for the application.
type appModel struct {
	state State
	theme *styles.Theme

	width  int
	height int

	chatModel   chatview.Model
	uploadModel uploadview.Model

	session *chat.Session
	client  *api.Client
	orch    *uploader.Orchestrator
	config  *config.Config

	backendErr error
}

func newAppModel(theme *styles.Theme, cfg *config.Config, session *chat.Session, client *api.Client, orch *uploader.Orchestrator) *appModel {
	return &appModel{
		state:       StateWelcome,
		theme:       theme,
		chatModel:   chatview.New(theme, cfg.UI.ShowCitations),
		uploadModel: uploadview.New(theme, cfg.Upload.DropDir),
		session:     session,
		client:      client,
		orch:        orch,
		config:      cfg,
	}
}

// BackendStatusMsg reports the startup reachability probe.
type BackendStatusMsg struct {
	Err error
}

// Init initializes the model. The orchestrator may hold outcome history
// restored from disk before the program started, so the upload view gets an
// initial snapshot here rather than waiting for the first live batch.
func (m *appModel) Init() tea.Cmd {
	return tea.Batch(m.chatModel.Init(), m.checkBackend(), m.seedUploadHistory())
}

// seedUploadHistory delivers the restored outcome history to the upload view.
func (m *appModel) seedUploadHistory() tea.Cmd {
	return func() tea.Msg {
		return uploadview.OutcomesMsg{Outcomes: m.orch.Results()}
	}
}

// checkBackend probes the backend so the status bar can show reachability.
func (m *appModel) checkBackend() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return BackendStatusMsg{Err: m.client.CheckRunning(ctx)}
	}
}

// Update handles messages and updates the model.
func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Header and status bar take one line each.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(inner)
		cmds = append(cmds, cmd)
		m.uploadModel, cmd = m.uploadModel.Update(inner)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			if m.state == StateChat {
				m.state = StateUpload
			} else {
				m.state = StateChat
			}
			return m, nil
		}
		if m.state == StateWelcome {
			m.state = StateChat
			return m, nil
		}

	case BackendStatusMsg:
		m.backendErr = msg.Err
		return m, nil

	case chatview.SubmitMsg:
		// Streaming happens off the event loop; the transcript observer
		// feeds updates back in as TranscriptMsg.
		text := msg.Text
		go m.session.Send(context.Background(), text)
		return m, nil

	case chatview.TranscriptMsg:
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd

	case uploadview.OutcomesMsg, uploadview.FilesMsg:
		var cmd tea.Cmd
		m.uploadModel, cmd = m.uploadModel.Update(msg)
		return m, cmd
	}

	// Route remaining messages to the active view.
	var cmd tea.Cmd
	switch m.state {
	case StateChat:
		m.chatModel, cmd = m.chatModel.Update(msg)
	case StateUpload:
		m.uploadModel, cmd = m.uploadModel.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the application.
func (m *appModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var body string
	switch m.state {
	case StateWelcome:
		body = m.renderWelcome()
	case StateChat:
		body = m.chatModel.View()
	case StateUpload:
		body = m.uploadModel.View()
	}

	return m.renderHeader() + "\n" + body + m.renderStatusBar()
}

func (m *appModel) renderHeader() string {
	title := "docchat"
	if m.state == StateUpload {
		title = "docchat - documents"
	}
	return m.theme.Header.Width(m.width).Render(title)
}

func (m *appModel) renderStatusBar() string {
	status := m.config.API.BaseURL
	if m.backendErr != nil {
		status += " (offline)"
	}
	if m.session.Streaming() {
		status = "streaming..."
	}
	shortcuts := []components.Shortcut{
		{Key: "tab", Desc: "switch view"},
		{Key: "ctrl+c", Desc: "quit"},
	}
	return components.RenderStatusBar(m.theme, m.width, status, shortcuts)
}

func (m *appModel) renderWelcome() string {
	lines := []string{
		"",
		m.theme.SectionTitle.Render("  Welcome to docchat"),
		"",
		m.theme.AssistantText.Render("  Ask questions about your uploaded documents."),
		m.theme.FileMeta.Render("  Backend: " + m.config.API.BaseURL),
		"",
		m.theme.FileMeta.Render("  Press any key to start."),
		"",
	}
	body := ""
	for _, l := range lines {
		body += l + "\n"
	}
	return body
}
