// Package notify delivers desktop notifications through the platform's
// native channel.
package notify

import "go.uber.org/zap"

// Desktop sends notifications via the OS channel. Send is a no-op when the
// channel is unavailable, never an error.
type Desktop struct {
	sound bool
	log   *zap.Logger
}

func NewDesktop(sound bool, log *zap.Logger) *Desktop {
	return &Desktop{
		sound: sound,
		log:   log,
	}
}

// Available reports whether the platform notification channel can be used.
func (d *Desktop) Available() bool {
	return platformAvailable()
}

// RequestPermission asks the platform for notification permission where such
// a concept exists; elsewhere it is a no-op.
func (d *Desktop) RequestPermission() {
	platformRequestPermission()
}

// Send delivers one notification. A non-empty url is appended to the body.
func (d *Desktop) Send(title, body, url string) {
	if !d.Available() {
		return
	}
	if url != "" {
		body = body + "\n" + url
	}
	if err := platformNotify(title, body); err != nil {
		d.log.Warn("notification delivery failed", zap.String("title", title), zap.Error(err))
		return
	}
	if d.sound {
		platformPlaySound()
	}
}
