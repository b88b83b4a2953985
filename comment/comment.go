package comment

import (
	"time"
)

// TimestampLayout is the ISO-8601 layout of Record timestamps. Parsing with
// it accepts the optional microsecond fraction.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

const timestampMicroLayout = "2006-01-02T15:04:05.000000-07:00"

// FormatTimestamp renders t in UTC with an explicit +00:00 offset. The
// microsecond fraction is written with six digits and left out entirely
// when it is zero.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(TimestampLayout)
	}
	return t.Format(timestampMicroLayout)
}

// Detail holds the submitted comment body.
type Detail struct {
	Text string `json:"texto" dynamodbav:"texto"`
}

// Record is one comment submission as it is persisted in the table and
// archived in the bucket.
//
// A Record is built once per request and never modified afterwards.
type Record struct {
	TenantID  string `json:"tenant_id" dynamodbav:"tenant_id"`
	ID        string `json:"uuid" dynamodbav:"uuid"`
	Detail    Detail `json:"detalle" dynamodbav:"detalle"`
	Timestamp string `json:"ts" dynamodbav:"ts"`
}

// NewRecord builds a Record. The timestamp is converted to UTC.
func NewRecord(tenantID, text, id string, now time.Time) Record {
	return Record{
		TenantID:  tenantID,
		ID:        id,
		Detail:    Detail{Text: text},
		Timestamp: FormatTimestamp(now),
	}
}

// ArchiveKey returns the object key of the archived copy of a record:
// "{tenantID}/{id}{ext}".
func ArchiveKey(tenantID, id, ext string) string {
	return tenantID + "/" + id + ext
}

// ArchiveKey returns the object key of r's archived copy.
func (r Record) ArchiveKey(ext string) string {
	return ArchiveKey(r.TenantID, r.ID, ext)
}
