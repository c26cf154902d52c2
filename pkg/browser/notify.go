package browser

import (
	"github.com/apex/log"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
)

// Event kinds handed to the notification collaborator.
const (
	EventNewDocumentFile = "new_document_file"
	EventNewSharedFile   = "new_shared_file"
	EventNewMarksFile    = "new_marks_file"
)

// LogSink is the default NotificationSink: it just logs. Deployments wire a
// real fan-out service in its place.
type LogSink struct{}

var _ stor.NotificationSink = LogSink{}

func (LogSink) FanOut(eventKind string, fileID int64) error {
	log.Infof("notification fan-out %s for file %d", eventKind, fileID)
	return nil
}

func (LogSink) MarkRemoved(fileID int64) error {
	log.Infof("notifications marked removed for file %d", fileID)
	return nil
}
