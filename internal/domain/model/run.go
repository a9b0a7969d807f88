//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"slices"
	"time"
)

// TestMethod is one method executed within a test class.
type TestMethod struct {
	ClassName  string     `json:"className,omitempty"`
	MethodName string     `json:"methodName"`
	Type       string     `json:"type,omitempty"`
	Status     string     `json:"status,omitempty"`
	Result     string     `json:"result,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
}

// TestStructure describes a run as reported by the ecosystem's result archive.
type TestStructure struct {
	RunName       string       `json:"runName"`
	Bundle        string       `json:"bundle,omitempty"`
	TestName      string       `json:"testName,omitempty"`
	TestShortName string       `json:"testShortName,omitempty"`
	Requestor     string       `json:"requestor,omitempty"`
	Group         string       `json:"group,omitempty"`
	SubmissionID  string       `json:"submissionId,omitempty"`
	Status        string       `json:"status,omitempty"`
	Result        string       `json:"result,omitempty"`
	QueuedTime    *time.Time   `json:"queued,omitempty"`
	StartTime     *time.Time   `json:"startTime,omitempty"`
	EndTime       *time.Time   `json:"endTime,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Methods       []TestMethod `json:"methods,omitempty"`
}

// Run is one test execution.
type Run struct {
	RunID         string        `json:"runId"`
	TestStructure TestStructure `json:"testStructure"`
}

// Clone returns a deep copy of r that shares no memory with the original.
func (r Run) Clone() Run {
	out := r
	ts := &out.TestStructure
	ts.QueuedTime = cloneTime(ts.QueuedTime)
	ts.StartTime = cloneTime(ts.StartTime)
	ts.EndTime = cloneTime(ts.EndTime)
	ts.Tags = slices.Clone(ts.Tags)
	if ts.Methods != nil {
		methods := make([]TestMethod, len(ts.Methods))
		for i, m := range ts.Methods {
			m.StartTime = cloneTime(m.StartTime)
			m.EndTime = cloneTime(m.EndTime)
			methods[i] = m
		}
		ts.Methods = methods
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
