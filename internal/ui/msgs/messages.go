// Package msgs defines message types shared between the app and its views.
package msgs

import "github.com/tgienger/planner/internal/models"

// ToastMsg asks the app to show a transient status line message.
type ToastMsg struct {
	Text string
	Err  bool
}

// Toast builds a success toast
func Toast(text string) ToastMsg { return ToastMsg{Text: text} }

// ToastErr builds an error toast from err
func ToastErr(err error) ToastMsg { return ToastMsg{Text: err.Error(), Err: true} }

// MutatedMsg is sent after the server confirmed a create, update, delete or
// status change. The app reloads the current tab in response.
type MutatedMsg struct {
	Kind  models.Kind
	Toast string
}

// OpenFormMsg opens the plan form. ID 0 means create.
type OpenFormMsg struct {
	Kind models.Kind
	ID   int64
}

// CloseFormMsg closes the plan form without saving.
type CloseFormMsg struct{}

// SelectDayMsg is sent when a calendar day is chosen.
type SelectDayMsg struct {
	Date models.Date
}

// JumpToPlanMsg switches to the plan's tab and focuses it.
type JumpToPlanMsg struct {
	Kind models.Kind
	ID   int64
}
