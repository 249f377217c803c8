package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/studytube/pkg/mailer/templates"
)

// Outcome tells the consumer loop what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

var errNoRecipient = errors.New("email job has no recipient")

// Worker renders queued jobs and hands them to a Sender.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle processes one message body. Malformed or unrenderable jobs are
// dropped; delivery failures are retried.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	subject, text, html, err := w.render(&job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render email failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("send email failed")
		return Retry
	}
	w.Logger.WithField("template", job.Template).Info("email sent")
	return Ack
}

func (w *Worker) render(job *EmailJob) (string, string, string, error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", errNoRecipient
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, _ := job.Data["Email"].(string); v == "" {
		job.Data["Email"] = job.To
	}
	return mailtpl.Render(strings.ToLower(job.Template), job.Data)
}
