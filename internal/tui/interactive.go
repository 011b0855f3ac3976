package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/inputs"
	"github.com/san-kum/algoviz/internal/seq"
)

type screen int

const (
	screenMenu screen = iota
	screenPlay
)

type editField int

const (
	editNone editField = iota
	editArray
	editTarget
)

type model struct {
	reg *experiment.Registry
	rng *rand.Rand

	screen     screen
	cursor     int
	algorithms []string
	selected   string

	in     experiment.Inputs
	player seq.Player
	unsub  func()
	frames chan struct{}
	frame  seq.Frame
	delay  time.Duration

	editing editField
	editBuf string
	message string

	width  int
	height int
}

// NewInteractiveApp opens on the algorithm menu.
func NewInteractiveApp(reg *experiment.Registry, rng *rand.Rand) *model {
	return &model{
		reg:        reg,
		rng:        rng,
		screen:     screenMenu,
		algorithms: reg.ListAlgorithms(),
		width:      80,
		height:     24,
	}
}

// NewPlayer opens directly on one configured run.
func NewPlayer(reg *experiment.Registry, cfg experiment.Config) (*model, error) {
	m := NewInteractiveApp(reg, rand.New(rand.NewSource(time.Now().UnixNano())))
	m.selected = cfg.Algorithm
	m.in = cfg.Inputs
	m.delay = cfg.Delay
	if err := m.build(); err != nil {
		return nil, err
	}
	m.screen = screenPlay
	return m, nil
}

// Run starts the program and blocks until the user quits.
func Run(m *model) error {
	defer m.teardown()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type frameMsg struct{}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitFrame blocks until the sequencer signals a new frame.
func waitFrame(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return frameMsg{}
	}
}

func (m *model) Init() tea.Cmd {
	if m.screen == screenPlay {
		return tea.Batch(waitFrame(m.frames), tick())
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		if m.player == nil {
			return m, nil
		}
		m.frame = m.player.Frame()
		return m, waitFrame(m.frames)
	case tickMsg:
		if m.screen != screenPlay {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case screenMenu:
		return m.menuKey(msg)
	case screenPlay:
		if m.editing != editNone {
			return m.editKey(msg)
		}
		return m.playKey(msg)
	}
	return m, nil
}

func (m *model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.algorithms)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.algorithms[m.cursor]
		m.delay = time.Duration(config.AlgorithmDelay(m.selected)) * time.Millisecond
		m.generate()
		if err := m.build(); err != nil {
			m.message = seq.Message(err)
			return m, nil
		}
		m.screen = screenPlay
		return m, tea.Batch(tea.ClearScreen, waitFrame(m.frames), tick())
	}
	return m, nil
}

func (m *model) playKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	var err error
	switch msg.String() {
	case "q", "esc":
		m.teardown()
		m.screen = screenMenu
		return m, tea.ClearScreen
	case " ", "p":
		switch m.frame.Status {
		case seq.Running:
			err = m.player.Pause()
		case seq.Paused:
			err = m.player.Resume()
		default:
			err = m.player.Start(context.Background())
		}
	case "n":
		err = m.player.StepOnce()
	case "r":
		err = m.player.Reset()
	case "c":
		err = m.player.Clear()
		m.in.Array = nil
		m.in.Target = nil
	case "x":
		err = m.player.Cancel()
	case "+", "=":
		err = m.setDelay(m.player.Delay() / 2)
	case "-", "_":
		err = m.setDelay(m.player.Delay() * 2)
	case "g":
		if err = m.idle(); err == nil {
			prev := m.in
			m.generate()
			if err = m.rebuild(prev); err == nil {
				m.frame = m.player.Frame()
				return m, waitFrame(m.frames)
			}
		}
	case "e":
		if err = m.idle(); err == nil {
			m.editing = editArray
			m.editBuf = inputs.FormatArray(m.in.Array)
		}
	case "t":
		if !m.reg.NeedsTarget(m.selected) {
			break
		}
		if err = m.idle(); err == nil {
			m.editing = editTarget
			m.editBuf = ""
		}
	}
	if err != nil {
		m.message = seq.Message(err)
	}
	if m.player != nil {
		m.frame = m.player.Frame()
	}
	return m, nil
}

func (m *model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.commitEdit()
	case tea.KeyEsc:
		m.editing = editNone
		m.editBuf = ""
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case tea.KeySpace:
		m.editBuf += " "
	case tea.KeyRunes:
		m.editBuf += string(msg.Runes)
	}
	if m.editing == editNone && m.player != nil {
		return m, waitFrame(m.frames)
	}
	return m, nil
}

func (m *model) commitEdit() {
	field := m.editing
	m.editing = editNone
	buf := m.editBuf
	m.editBuf = ""
	prev := m.in

	switch field {
	case editArray:
		a, err := inputs.ParseArray(buf)
		if err != nil {
			m.message = seq.Message(err)
			return
		}
		m.in.Array = inputs.Prepare(seq.Kind(m.selected), a)
	case editTarget:
		t, err := inputs.ParseTarget(buf)
		if err != nil {
			m.message = seq.Message(err)
			return
		}
		m.in.Target = &t
	}
	if err := m.rebuild(prev); err != nil {
		m.message = seq.Message(err)
		return
	}
	m.frame = m.player.Frame()
}

func (m *model) idle() error {
	if st := m.player.Frame().Status; st == seq.Running || st == seq.Paused {
		return &seq.IllegalStateError{Op: "edit inputs", Status: st}
	}
	return nil
}

func (m *model) setDelay(d time.Duration) error {
	d = time.Duration(config.ClampDelayMs(int(d.Milliseconds()))) * time.Millisecond
	if err := m.player.SetDelay(d); err != nil {
		return err
	}
	m.delay = d
	return nil
}

// generate fills the inputs for the selected algorithm with fresh random data.
func (m *model) generate() {
	kind := seq.Kind(m.selected)
	m.in = experiment.Inputs{Capacity: config.DefaultConfig().MaxCapacity}

	if m.reg.IsContainer(m.selected) {
		if names := config.ListPresets(m.selected); len(names) > 0 {
			p := config.GetPreset(m.selected, names[0])
			m.in.Ops = p.Ops
			m.in.Array = p.Array
			if p.MaxCapacity > 0 {
				m.in.Capacity = p.MaxCapacity
			}
		}
		return
	}

	m.in.Array = inputs.Generate(m.rng, kind, inputs.Size(kind).Default)
	if m.reg.NeedsTarget(m.selected) {
		t := m.in.Array[m.rng.Intn(len(m.in.Array))]
		if m.rng.Intn(4) == 0 {
			t = float64(inputs.MinValue + m.rng.Intn(inputs.MaxValue-inputs.MinValue+1))
		}
		m.in.Target = &t
	}
}

// rebuild swaps in a player for the current inputs. On failure the old
// player and prev inputs stay in place.
func (m *model) rebuild(prev experiment.Inputs) error {
	old, oldUnsub, oldFrames := m.player, m.unsub, m.frames
	if err := m.build(); err != nil {
		m.in = prev
		return err
	}
	if old != nil {
		_ = old.Cancel()
		oldUnsub()
		close(oldFrames)
	}
	return nil
}

func (m *model) build() error {
	p, err := m.reg.Build(m.selected, m.in,
		seq.WithDelay(m.delay),
		seq.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	frames := make(chan struct{}, 1)
	m.unsub = p.Subscribe(seq.ObserverFunc(func(seq.Frame) {
		select {
		case frames <- struct{}{}:
		default:
		}
	}))
	m.player = p
	m.frames = frames
	m.frame = p.Frame()
	m.delay = p.Delay()
	return nil
}

func (m *model) teardown() {
	if m.player == nil {
		return
	}
	_ = m.player.Cancel()
	m.unsub()
	close(m.frames)
	m.player = nil
}

func (m *model) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenPlay:
		return m.viewPlay()
	}
	return ""
}

func (m *model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("a l g o v i z") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.algorithms {
		desc := m.reg.Describe(name)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	if m.message != "" {
		b.WriteString("\n      " + red.Render(m.message) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")

	return b.String()
}

func (m *model) viewPlay() string {
	var b strings.Builder
	f := m.frame

	b.WriteString("\n   " + Header(f) + "  " + dim.Render(fmt.Sprintf("%s %s", config.SpeedTier(m.delay), m.delay)) + "\n\n")

	for _, line := range strings.Split(RenderState(f.State, time.Now()), "\n") {
		b.WriteString("   " + line + "\n")
	}

	b.WriteString("\n")
	if f.Annotation != "" {
		b.WriteString("   " + white.Render(f.Annotation) + "\n")
	}
	if m.message != "" {
		b.WriteString("   " + red.Render(m.message) + "\n")
	}

	switch m.editing {
	case editArray:
		b.WriteString("\n   " + dim.Render("array ") + magenta.Render(m.editBuf+"▋") + "\n")
	case editTarget:
		b.WriteString("\n   " + dim.Render("target ") + magenta.Render(m.editBuf+"▋") + "\n")
	}

	help := "   space start/pause  n step  r reset  c clear  x cancel  ± speed  g new  e edit"
	if m.reg.NeedsTarget(m.selected) {
		help += "  t target"
	}
	b.WriteString("\n" + dim.Render(help+"  q back") + "\n")

	return b.String()
}
