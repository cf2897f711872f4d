// Package notify shows reminders as desktop notifications.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/Tiliavir/hourlog/internal/reminder"
)

// AppName is the application name shown by the notification daemon.
const AppName = "hourlog"

// sendFunc matches beeep.Notify and beeep.Alert.
type sendFunc func(title, message string, icon any) error

// Desktop presents notices through the OS notification center. Clicks on a
// desktop notification are not reported back, so the body ends with the
// command that logs the hour.
type Desktop struct {
	// Sound plays the alert sound with the notification.
	Sound bool

	send sendFunc
}

// NewDesktop returns a Desktop presenter.
func NewDesktop(sound bool) *Desktop {
	beeep.AppName = AppName
	d := &Desktop{Sound: sound, send: beeep.Notify}
	if sound {
		d.send = beeep.Alert
	}
	return d
}

// Present implements reminder.Presenter.
func (d *Desktop) Present(n reminder.Notice) error {
	body := fmt.Sprintf("%s\nhourlog log <activity> --date %s --hour %d", n.Body, n.Date, n.Hour)
	if err := d.send(n.Title, body, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
