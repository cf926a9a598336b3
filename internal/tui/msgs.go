package tui

import (
	"dayboard-cli/internal/model"
	"dayboard-cli/internal/syncer"
)

type itemsLoadedMsg struct {
	items []model.Item
	err   error
}

// syncDoneMsg feeds a completed persistence call back into the update loop;
// syncer.Resolve only ever runs there.
type syncDoneMsg struct {
	call syncer.Call
	err  error
}

type noticeDoneMsg struct{ seq int }
