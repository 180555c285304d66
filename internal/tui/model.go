package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/config"
	"github.com/csheth/tdamcheck/internal/document"
	"github.com/csheth/tdamcheck/internal/logging"
	"github.com/csheth/tdamcheck/internal/meter"
	"github.com/csheth/tdamcheck/internal/render"
	"github.com/csheth/tdamcheck/internal/session"
)

type model struct {
	config   Config
	logger   zerolog.Logger
	session  session.State
	picker   filepicker.Model
	progress progress.Model
	meter    meter.Simulator
	spinner  spinner.Model
	viewport viewport.Model
	renderer *render.Renderer
	jobs     *jobBus
	layout   pageLayout

	jobStates     map[jobKind]jobSnapshot
	focus         focusArea
	notice        string
	errorMessage  string
	helpVisible   bool
	viewportDirty bool
	lastDuration  time.Duration
}

// New builds the Bubble Tea model for the upload screen.
func New(cfg Config) tea.Model {
	if cfg.Settings.Endpoint == "" {
		cfg.Settings = config.DefaultConfig()
	}
	settings := cfg.Settings
	logger := logging.Component("tui")

	if cfg.Uploader == nil {
		client, err := compliance.New(compliance.Config{
			Endpoint:  settings.Endpoint,
			FieldName: settings.FieldName,
			Timeout:   settings.Timeout,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create compliance client")
		} else {
			cfg.Uploader = client
		}
	}

	layout := newPageLayout()

	picker := filepicker.New()
	picker.CurrentDirectory = startDirectory(settings.Picker.StartDir)
	picker.ShowHidden = settings.Picker.ShowHidden
	picker.ShowPermissions = false
	picker.ShowSize = true
	picker.AutoHeight = false
	picker.Height = layout.pickerRows(false)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = layout.progressWidth()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = spinnerStyle

	vp := viewport.New(layout.contentWidth, layout.resultsHeight)

	return &model{
		config:   cfg,
		logger:   logger,
		picker:   picker,
		progress: bar,
		meter:    meter.New(settings.Progress.Interval, settings.Progress.Ceiling),
		spinner:  spin,
		viewport: vp,
		renderer: render.New(render.Options{
			Width:        layout.contentWidth,
			DefaultColor: settings.Highlight.DefaultColor,
			FromAnchors:  settings.Highlight.FromAnchors,
		}),
		jobs:      newJobBus(cfg.Context),
		layout:    layout,
		jobStates: map[jobKind]jobSnapshot{},
	}
}

func startDirectory(dir string) string {
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func (m *model) Init() tea.Cmd {
	return m.picker.Init()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		return m, nil
	case spinner.TickMsg:
		if !m.session.Uploading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case meter.TickMsg:
		var cmd tea.Cmd
		m.meter, cmd = m.meter.Update(msg)
		m.session = m.session.Advance(m.session.RequestID, m.meter.Value())
		return m, cmd
	case jobSignalMsg:
		m.jobStates[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobStates[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case inspectResultMsg:
		return m.handleInspectResult(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.focus == focusResults {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.jobs.Close()
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "c", "ctrl+s":
		return m.submit()
	case "tab":
		if m.session.ShowResults() {
			if m.focus == focusPicker {
				m.focus = focusResults
			} else {
				m.focus = focusPicker
			}
		}
		return m, nil
	case "esc":
		if m.focus == focusResults {
			m.focus = focusPicker
			return m, nil
		}
	}

	if m.focus == focusResults {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, m.selectFile(path))
	}
	return m, cmd
}

// selectFile records path as the document to upload and inspects it in the
// background.
func (m *model) selectFile(path string) tea.Cmd {
	name := filepath.Base(path)
	if !m.config.Settings.Picker.Includes(path) {
		m.notice = fmt.Sprintf("%s does not match the picker include patterns.", name)
		return nil
	}
	m.session = m.session.Select(document.Info{Path: path, Name: name, Kind: document.KindOf(path)})
	m.notice = ""
	m.logger.Debug().Str("file", path).Msg("file selected")
	return m.jobs.Start(jobKindInspect, inspectJob(path))
}

func (m *model) handleInspectResult(msg inspectResultMsg) (tea.Model, tea.Cmd) {
	if m.session.File == nil || m.session.File.Path != msg.path {
		return m, nil
	}
	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Str("file", msg.path).Msg("failed to inspect file")
		return m, nil
	}
	m.session = m.session.Select(msg.info)
	return m, nil
}

// submit starts an upload of the selected file. Without a file it only sets
// a notice and issues no request.
func (m *model) submit() (tea.Model, tea.Cmd) {
	requestID := compliance.NewRequestID()
	next, err := m.session.Begin(requestID)
	switch {
	case errors.Is(err, session.ErrNoFile):
		m.notice = noFileNotice
		return m, nil
	case errors.Is(err, session.ErrBusy):
		m.notice = busyNotice
		return m, nil
	case err != nil:
		m.errorMessage = err.Error()
		return m, nil
	}

	m.session = next
	m.notice = ""
	m.errorMessage = ""
	m.focus = focusPicker
	m.applyLayout()
	m.markViewportDirty()
	m.logger.Info().
		Str("request_id", requestID).
		Str("file", next.File.Path).
		Msg("upload started")

	var meterCmd tea.Cmd
	m.meter, meterCmd = m.meter.Start()
	upload := m.jobs.Start(jobKindUpload, uploadJob(m.config.Uploader, requestID, next.File.Path))
	return m, tea.Batch(meterCmd, m.spinner.Tick, upload)
}

func (m *model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if !m.session.Uploading() || msg.requestID != m.session.RequestID {
		m.logger.Debug().Str("request_id", msg.requestID).Msg("ignoring stale upload result")
		return m, nil
	}
	m.meter = m.meter.Stop()

	if msg.err != nil {
		m.session = m.session.Fail(msg.requestID, msg.err)
		m.errorMessage = compliance.UserMessage(msg.err)
		m.logger.Error().
			Err(msg.err).
			Str("request_id", msg.requestID).
			Str("kind", string(compliance.Classify(msg.err))).
			Msg("upload failed")
		m.applyLayout()
		return m, nil
	}

	m.session = m.session.Succeed(msg.requestID, msg.chunks)
	m.lastDuration = msg.duration
	m.logger.Info().
		Str("request_id", msg.requestID).
		Int("chunks", len(msg.chunks)).
		Dur("duration", msg.duration).
		Msg("upload finished")
	if len(msg.chunks) == 0 {
		m.notice = noChunksNotice
	} else {
		m.focus = focusResults
	}
	m.applyLayout()
	m.markViewportDirty()
	m.viewport.GotoTop()
	return m, nil
}

func (m *model) applyLayout() {
	m.picker.Height = m.layout.pickerRows(m.session.ShowResults())
	m.progress.Width = m.layout.progressWidth()
	m.viewport.Width = m.layout.contentWidth
	m.viewport.Height = m.layout.resultsHeight
	if m.renderer.Width() != m.layout.contentWidth {
		m.renderer.SetWidth(m.layout.contentWidth)
		m.markViewportDirty()
	}
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	if !m.session.ShowResults() {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderer.Chunks(m.session.Chunks))
}
