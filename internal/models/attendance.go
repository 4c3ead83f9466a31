package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceSubmission is one facilitator's claim about one student's status
// on one date. Submissions are append-only: several may coexist for the same
// (student_id, date) until aggregation consumes and deletes them.
type AttendanceSubmission struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubmissionID  string             `json:"submission_id" bson:"submission_id"`
	StudentID     string             `json:"student_id" bson:"student_id"`
	Date          string             `json:"date" bson:"date"`
	Present       bool               `json:"present" bson:"present"`
	HasPermission bool               `json:"has_permission" bson:"has_permission"`
	Reason        string             `json:"reason" bson:"reason"`
	MarkedBy      string             `json:"marked_by" bson:"marked_by"`
	Timestamp     time.Time          `json:"timestamp" bson:"timestamp"`
}

// AttendanceRecord is the authoritative attendance entry. At most one exists
// per (student_id, date); only the aggregator writes it.
type AttendanceRecord struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StudentID     string             `json:"student_id" bson:"student_id"`
	Date          string             `json:"date" bson:"date"`
	Present       bool               `json:"present" bson:"present"`
	HasPermission bool               `json:"has_permission" bson:"has_permission"`
	Reason        string             `json:"reason" bson:"reason"`
	MarkedBy      string             `json:"marked_by" bson:"marked_by"`
	Timestamp     time.Time          `json:"timestamp" bson:"timestamp"`
}
