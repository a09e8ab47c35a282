package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n4ze3m/num-shift/internal/advisor"
	"github.com/n4ze3m/num-shift/internal/engine"
	"github.com/n4ze3m/num-shift/internal/generator"
	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/puzzle"
	"github.com/n4ze3m/num-shift/internal/storage"
)

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateThinking
	stateError
)

// Options wires the play client.
type Options struct {
	Mode  models.Mode
	Store storage.Store
	// Advisor answers /hint; nil disables it.
	Advisor *advisor.Advisor
	Logger  *slog.Logger
	Now     func() time.Time
}

type model struct {
	state   sessionState
	mode    models.Mode
	store   storage.Store
	advisor *advisor.Advisor
	logger  *slog.Logger
	now     func() time.Time

	daily       *engine.Daily
	lab         *engine.Lab
	labUnlocked bool

	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(0, 1).
			Bold(true)

	matchTileStyle = tileStyle.
			BorderForeground(lipgloss.Color("#5FD75F")).
			Foreground(lipgloss.Color("#5FD75F"))

	targetTileStyle = tileStyle.
			BorderForeground(lipgloss.Color("#FFA500")).
			Foreground(lipgloss.Color("#FFA500"))
)

func newModel(opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "swap 0 3, flip 2, /help..."
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mode := opts.Mode
	if mode == "" {
		mode = models.ModeDaily
	}

	return model{
		state:     stateLoading,
		mode:      mode,
		store:     opts.Store,
		advisor:   opts.Advisor,
		logger:    logger,
		now:       now,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load(m.mode))
}

type loadedMsg struct {
	mode     models.Mode
	daily    *engine.Daily
	lab      *engine.Lab
	unlocked bool
	notice   string
	err      error
}

type hintMsg struct {
	suggestion *advisor.Suggestion
	err        error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state != statePlaying {
				return m, nil
			}
			line := strings.TrimSpace(m.textInput.Value())
			if line == "" {
				return m, nil
			}
			m.textInput.Reset()
			m.appendLog(userStyle.Width(m.logWidth()).Render("> " + line))

			c, err := parseCommand(line)
			if err != nil {
				m.appendLog(errorStyle.Render(err.Error()))
				return m, nil
			}
			return m.run(c)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		m.viewport.SetContent(m.gameLog)

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.mode = msg.mode
		m.daily = msg.daily
		m.lab = msg.lab
		m.labUnlocked = msg.unlocked
		m.state = statePlaying
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), max(m.height-6, 10))
		}
		if msg.notice != "" {
			m.appendLog(helpStyle.Render(msg.notice))
		}
		m.appendLog(m.intro())
		m.save()
		return m, nil

	case hintMsg:
		m.state = statePlaying
		if msg.err != nil {
			m.logger.Warn("hint failed", "error", msg.err)
			m.appendLog(errorStyle.Render("No hint this time: " + msg.err.Error()))
			return m, nil
		}
		text := "Hint: " + advisor.Describe(msg.suggestion.Move)
		if msg.suggestion.Reason != "" {
			text += " (" + msg.suggestion.Reason + ")"
		}
		m.appendLog(helpStyle.Render(text))
		return m, nil
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// run executes one parsed command against the active session.
func (m model) run(c command) (tea.Model, tea.Cmd) {
	if m.mode == models.ModeDaily && m.daily.Stale(m.now()) && c.kind != cmdQuit {
		m.appendLog(helpStyle.Render("A new daily puzzle is out."))
		m.state = stateLoading
		return m, m.load(models.ModeDaily)
	}

	switch c.kind {
	case cmdQuit:
		return m, tea.Quit

	case cmdHelp:
		m.appendLog(helpStyle.Render(helpText))
		return m, nil

	case cmdDaily, cmdLab:
		mode := models.ModeDaily
		if c.kind == cmdLab {
			mode = models.ModeLab
		}
		if mode == m.mode {
			return m, nil
		}
		m.state = stateLoading
		return m, m.load(mode)

	case cmdHint:
		if m.advisor == nil {
			m.appendLog(helpStyle.Render("Hints need GEMINI_API_KEY."))
			return m, nil
		}
		if m.session().State() != engine.InProgress {
			m.appendLog(helpStyle.Render("Nothing to hint at."))
			return m, nil
		}
		m.state = stateThinking
		return m, m.suggest(m.session())

	case cmdShare:
		if m.mode != models.ModeDaily || !m.daily.Session.Complete {
			m.appendLog(helpStyle.Render("Solve today's daily first."))
			return m, nil
		}
		m.appendLog(gameStyle.Render(engine.FormatShare(m.daily.Session.Summary(), m.now())))
		return m, nil

	case cmdUndo:
		var ok bool
		if m.mode == models.ModeDaily {
			ok = m.daily.Undo()
		} else {
			ok = m.lab.Undo()
		}
		if !ok {
			m.appendLog(helpStyle.Render("Nothing to undo."))
			return m, nil
		}
		m.appendLog(gameStyle.Render("Undone. Now " + m.session().Current))

	case cmdReset:
		if m.mode == models.ModeDaily {
			if err := m.daily.Reset(); err != nil {
				m.appendLog(errorStyle.Render(err.Error()))
				return m, nil
			}
		} else {
			m.lab.ResetLevel()
		}
		m.appendLog(gameStyle.Render("Back to " + m.session().Current))

	case cmdNext:
		if m.mode != models.ModeLab {
			m.appendLog(helpStyle.Render("/next is for the lab."))
			return m, nil
		}
		banked := m.lab.LevelScore
		if err := m.lab.NextLevel(); err != nil {
			m.appendLog(errorStyle.Render(err.Error()))
			return m, nil
		}
		m.logger.Info("lab level advanced", "level", m.lab.Level, "banked", banked, "total", m.lab.TotalScore)
		m.appendLog(gameStyle.Render(fmt.Sprintf("Level %d. Make %s.", m.lab.Level, m.lab.Session.Config.TargetNumber)))

	case cmdMove:
		if !m.play(c.move) {
			return m, nil
		}
	}

	m.save()
	return m, nil
}

// play applies mv and reports whether the session changed.
func (m *model) play(mv models.Mutation) bool {
	s := m.session()
	if mv.Type == models.KindFlip && mv.Value == "" {
		d := string(s.Current[mv.Position])
		partner, ok := s.Config.FlipMap[d]
		if !ok {
			m.appendLog(errorStyle.Render(d + " has no flip partner"))
			return false
		}
		mv.Value = partner
	}
	if err := s.Offered(mv); err != nil {
		m.appendLog(errorStyle.Render(err.Error()))
		return false
	}

	before := s.Current
	switch m.mode {
	case models.ModeDaily:
		solved, err := m.daily.PerformMutation(mv)
		if err != nil {
			m.appendLog(errorStyle.Render(err.Error()))
			return false
		}
		m.appendLog(gameStyle.Render(fmt.Sprintf("%s → %s", before, s.Current)))
		if solved {
			m.recordWin()
		}
	default:
		if err := m.lab.PerformMutation(mv); err != nil {
			m.appendLog(errorStyle.Render(err.Error()))
			return false
		}
		m.appendLog(gameStyle.Render(fmt.Sprintf("%s → %s", before, s.Current)))
		if s.Complete {
			m.logger.Info("lab level solved", "level", m.lab.Level, "moves", s.MovesUsed(), "score", m.lab.LevelScore)
			m.appendLog(winStyle.Render(fmt.Sprintf("Level %d solved! +%d. /next to continue.", m.lab.Level, m.lab.LevelScore)))
		}
	}

	if s.State() == engine.Exhausted {
		m.appendLog(errorStyle.Render("Out of attempts. /undo or /reset."))
	}
	return true
}

func (m *model) recordWin() {
	s := m.daily.Session
	m.logger.Info("daily solved", "day", m.daily.Key, "moves", s.MovesUsed())
	if err := m.store.MarkDailyCompleted(context.Background(), m.daily.Key, m.now()); err != nil {
		m.logger.Error("record daily win", "error", err)
		m.appendLog(errorStyle.Render("Could not record the win: " + err.Error()))
	}
	m.appendLog(winStyle.Render(fmt.Sprintf("Solved in %d moves! /share to brag.", s.MovesUsed())))
	if !m.labUnlocked {
		m.labUnlocked = true
		m.appendLog(winStyle.Render("The lab is open: /lab"))
	}
}

func (m *model) save() {
	var snap models.Snapshot
	switch {
	case m.mode == models.ModeDaily && m.daily != nil:
		snap = m.daily.Snapshot()
	case m.mode == models.ModeLab && m.lab != nil:
		snap = m.lab.Snapshot()
	default:
		return
	}
	if err := m.store.SaveSnapshot(context.Background(), &snap); err != nil {
		m.logger.Error("save snapshot", "mode", snap.Mode, "error", err)
		m.appendLog(errorStyle.Render("Could not save: " + err.Error()))
	}
}

func (m model) session() *engine.Session {
	if m.mode == models.ModeLab {
		return m.lab.Session
	}
	return m.daily.Session
}

func (m *model) appendLog(s string) {
	m.gameLog += s + "\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 60
	}
	return int(float64(m.width) * 0.6)
}

func (m model) intro() string {
	s := m.session()
	if m.mode == models.ModeLab {
		return gameStyle.Render(fmt.Sprintf("Lab level %d: turn %s into %s.", m.lab.Level, s.Current, s.Config.TargetNumber))
	}
	if m.daily.Locked {
		return gameStyle.Render("Today's puzzle is solved. " + countdown(m.now()))
	}
	return gameStyle.Render(fmt.Sprintf("Daily %s: turn %s into %s.", m.daily.Key, s.Current, s.Config.TargetNumber))
}

func countdown(now time.Time) string {
	return "Next puzzle in " + puzzle.FormatCountdown(puzzle.UntilNextDaily(now)) + "."
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = "\n  Loading puzzle...\n"

	case statePlaying, stateThinking:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := helpStyle.Render("Commands: /help, /undo, /reset, /hint, /quit")
		if m.state == stateThinking {
			help = helpStyle.Render("Asking the advisor...")
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	s := m.session()
	if s == nil {
		return ""
	}
	cfg := s.Config

	var b strings.Builder
	if m.mode == models.ModeLab {
		b.WriteString(titleStyle.Render(fmt.Sprintf("LAB %d", m.lab.Level)) + "\n")
		fmt.Fprintf(&b, "Score: %d\n\n", m.lab.TotalScore+m.lab.LevelScore)
	} else {
		b.WriteString(titleStyle.Render("DAILY "+m.daily.Key) + "\n\n")
	}

	b.WriteString("Target\n" + renderTiles(cfg.TargetNumber, cfg.TargetNumber, targetTileStyle, false) + "\n")
	b.WriteString("Current\n" + renderTiles(s.Current, cfg.TargetNumber, tileStyle, true) + "\n")
	b.WriteString(helpStyle.Render("  0    1    2    3    4    5") + "\n\n")

	fmt.Fprintf(&b, "Attempts: %d/%d\n", s.AttemptsRemaining, cfg.MaxAttempts)
	fmt.Fprintf(&b, "Matched: %.0f%%\n", s.Progress()*100)
	fmt.Fprintf(&b, "Pool: %s\n", strings.Join(cfg.MutationPool, " "))
	fmt.Fprintf(&b, "Par: %d moves\n", puzzle.OptimalMoves(cfg.BaseNumber, cfg.TargetNumber))

	if bonus, hits := puzzle.PatternBonus(s.Current, cfg.SpecialPatterns); bonus > 0 {
		names := make([]string, 0, len(hits))
		for _, p := range hits {
			names = append(names, p.Description)
		}
		fmt.Fprintf(&b, "Patterns: %s (+%d)\n", strings.Join(names, ", "), bonus)
	}
	if m.mode == models.ModeDaily && m.daily.Locked {
		b.WriteString("\n" + countdown(m.now()) + "\n")
	}

	stateWidth := m.width - m.logWidth() - 4
	if stateWidth < 36 {
		stateWidth = 36
	}
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

// renderTiles draws number as a row of tiles. With markMatches set,
// positions that already match target are highlighted.
func renderTiles(number, target string, style lipgloss.Style, markMatches bool) string {
	tiles := make([]string, 0, len(number))
	for i := range number {
		st := style
		if markMatches && i < len(target) && number[i] == target[i] {
			st = matchTileStyle
		}
		tiles = append(tiles, st.Render(string(number[i])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m model) load(mode models.Mode) tea.Cmd {
	return func() tea.Msg {
		return m.loadSession(context.Background(), mode)
	}
}

// loadSession resumes the saved session for mode, or starts a fresh one
// when nothing usable is saved. The lab stays closed until a daily has
// been won.
func (m model) loadSession(ctx context.Context, mode models.Mode) loadedMsg {
	unlocked, err := m.store.LabUnlocked(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}
	msg := loadedMsg{mode: mode, unlocked: unlocked}
	if mode == models.ModeLab && !unlocked {
		msg.mode = models.ModeDaily
		msg.notice = "The lab opens once you have solved a daily puzzle."
	}

	snap, err := m.store.LoadSnapshot(ctx, msg.mode)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.logger.Warn("load snapshot", "mode", msg.mode, "error", err)
		snap = nil
	}
	genOpts := []generator.Option{generator.WithLogger(m.logger)}

	if msg.mode == models.ModeLab {
		if snap != nil {
			lab, err := engine.RestoreLab(snap, genOpts...)
			if err == nil {
				msg.lab = lab
				return msg
			}
			m.logger.Warn("discarding lab snapshot", "error", err)
		}
		msg.lab = engine.NewLab(puzzle.FirstLevel, 0, genOpts...)
		return msg
	}

	now := m.now()
	won, err := m.store.DailyCompleted(ctx, puzzle.DailyKey(now))
	if err != nil {
		return loadedMsg{err: err}
	}
	if snap != nil {
		daily, err := engine.RestoreDaily(snap, now, won, genOpts...)
		if err == nil {
			msg.daily = daily
			return msg
		}
		if errors.Is(err, engine.ErrStaleSnapshot) {
			m.logger.Info("new daily puzzle", "day", puzzle.DailyKey(now), "previous", snap.Key)
		} else {
			m.logger.Warn("discarding daily snapshot", "error", err)
		}
	}
	msg.daily = engine.NewDaily(now, won, genOpts...)
	return msg
}

func (m model) suggest(s *engine.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sug, err := m.advisor.Suggest(ctx, s)
		return hintMsg{suggestion: sug, err: err}
	}
}

// Run starts the client and blocks until the player quits.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("a store is required")
	}
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
