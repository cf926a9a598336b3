package tui

import (
	"dayboard-cli/internal/api"
	"dayboard-cli/internal/drag"
	"dayboard-cli/internal/group"
	"dayboard-cli/internal/model"
	"dayboard-cli/internal/store"
	"dayboard-cli/internal/syncer"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// boardTop is the first board row's screen line: title, status, blank.
const boardTop = 3

type appModel struct {
	client api.Client
	store  *store.Store
	sync   *syncer.Manager
	drag   *drag.Controller
	today  model.Date

	width  int
	height int

	filters group.Filters
	// groups/rows are the cached projection of the store; rebuilt whenever
	// the store revision advances (refreshBoard). Drag hover state is not
	// part of this cache, so hover updates never trigger a rebuild.
	groups   []group.Group
	rows     []row
	storeRev int

	cursor int // row index of the selected item row
	scroll int

	loading bool
	loadErr string

	notice    string
	noticeSeq int

	pending int // in-flight persistence calls
	spin    spinner.Model

	capture *captureState
}

func newAppModel(client api.Client) appModel {
	s := store.New()
	today := model.Today()
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return appModel{
		client:  client,
		store:   s,
		sync:    syncer.New(s, client, func() model.Date { return today }),
		drag:    drag.New(),
		today:   today,
		loading: true,
		spin:    sp,
	}
}

func (m appModel) Init() tea.Cmd {
	return loadItemsCmd(m.client)
}
