package notifications

import (
	"fmt"
	"strings"

	"github.com/hmcts/sscs-pdf-email-common/ccd"
)

// Event ids and fixed audit strings recorded against the case.
const (
	EventNotificationSent = "notificationSent"
	EventStopBulkPrint    = "stopBulkPrintForReasonableAdjustment"
	EventUploadDocument   = "uploadDocument"

	SummaryNotificationSent     = "Notification sent"
	DescriptionNotificationSent = "Notification sent via Gov Notify"

	SummaryStopBulkPrint     = "Stop bulk print"
	DescriptionStopBulkPrint = "Stopped for reasonable adjustment to be sent"

	SummaryUploadDocument            = "SSCS - upload document event"
	DefaultUploadDocumentDescription = "Uploaded document into SSCS"
)

// DeliverySummary is the human-readable summary of one delivered
// notification.
func DeliverySummary(c ccd.Correspondence) string {
	return fmt.Sprintf("%s %s Notification Successfully Sent to %s",
		c.EventType, c.CorrespondenceType, c.To)
}

// DocumentBullets lists the merged entries' stored documents as markdown
// bullets, one "* [filename](url)" line per document. Entries without a
// document link are skipped.
func DocumentBullets(entries []ccd.Correspondence) string {
	bullets := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.DocumentLink == nil {
			continue
		}
		bullets = append(bullets, fmt.Sprintf("* [%s](%s)",
			e.DocumentLink.DocumentFilename, e.DocumentLink.DocumentURL))
	}
	return strings.Join(bullets, "\n")
}
