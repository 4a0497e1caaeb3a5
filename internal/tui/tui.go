// Package tui implements the interactive favorites panel: a bubbletea
// program that renders the store through the favorites controller and
// feeds key input back into it. The model doubles as the controller's
// collaborator set, so the panel and the controller share one state.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/padfav/padfav/internal/controller"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/i18n"
	"github.com/padfav/padfav/internal/logging"
	"github.com/padfav/padfav/internal/store"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// Lines reserved around the list: header, column row, form pane,
	// status line, footer and their separators.
	chromeLines       = 7
	minViewportHeight = 3
)

type mode int

const (
	modeList mode = iota
	modeDetails
	modeConfirmDelete
	modeComment
)

type statusKind int

const (
	statusNone statusKind = iota
	statusInfo
	statusSuccess
	statusWarning
	statusError
)

type statusLine struct {
	kind statusKind
	text string
}

// Options configure the panel.
type Options struct {
	Store         *store.Store
	Catalog       *i18n.Catalog
	Logger        logging.Logger
	SortCriterion favorite.Criterion
	AutosaveDelay time.Duration
	Decimals      int
}

// Model is the bubbletea model for the favorites panel.
type Model struct {
	ctrl     *controller.Controller
	catalog  *i18n.Catalog
	log      logging.Logger
	ctx      context.Context
	decimals int

	// mu guards records, order, status, form and send: the details
	// auto-save timer mutates them off the event loop.
	mu      sync.Mutex
	send    func(tea.Msg)
	records []favorite.Record
	order   []string
	status  statusLine
	form    favorite.FormValues

	// Event-loop-only state below.
	cursor   int
	width    int
	height   int
	viewport viewport.Model
	mode     mode

	titleInput textinput.Model
	descInput  textinput.Model
	descFocus  bool
	detailsID  string

	commentCB  func(title, description string, ok bool)
	deleteCB   func(confirmed bool)
	deleteName string
}

// New builds the panel, wires a controller to it, and performs the
// initial render so the first frame already shows the list.
func New(opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("favorites store is required")
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("translation catalog is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	decimals := opts.Decimals
	if decimals < 0 || decimals > 6 {
		decimals = 1
	}

	title := textinput.New()
	title.Prompt = "> "
	title.CharLimit = favorite.TitleMaxRunes
	desc := textinput.New()
	desc.Prompt = "> "
	desc.CharLimit = favorite.DescriptionMaxRunes

	m := &Model{
		catalog:    opts.Catalog,
		log:        logger,
		ctx:        context.Background(),
		decimals:   decimals,
		width:      defaultWidth,
		height:     defaultHeight,
		viewport:   viewport.New(defaultWidth, defaultHeight-chromeLines),
		titleInput: title,
		descInput:  desc,
	}

	ctrl, err := controller.New(controller.Options{
		Store:               opts.Store,
		Renderer:            m,
		Translator:          opts.Catalog,
		Notifier:            m,
		Dialogs:             m,
		Form:                m,
		Logger:              logger,
		SortCriterion:       opts.SortCriterion,
		AutosaveDelay:       opts.AutosaveDelay,
		DefaultNameVariants: opts.Catalog.DefaultNameVariants(),
	})
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl

	ctrl.Refresh(m.ctx)
	return m, nil
}

// Run drives the panel until the user quits.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.ctrl.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.setSend(p.Send)
	_, err = p.Run()
	return err
}

// Controller exposes the wired controller, mainly for tests.
func (m *Model) Controller() *controller.Controller {
	return m.ctrl
}

func (m *Model) setSend(send func(tea.Msg)) {
	m.mu.Lock()
	m.send = send
	m.mu.Unlock()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}
