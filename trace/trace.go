// Package trace wraps an event sink with structured logging of every event,
// for debugging handler state machines against a live stream.
package trace

import (
	"github.com/sirupsen/logrus"

	"github.com/typestream/typestream"
)

type sink struct {
	next typestream.Sink
	log  logrus.FieldLogger
}

// Wrap returns a Sink that logs each event at debug level before forwarding
// it to next. Errors returned by next are logged at warn level and passed
// through unchanged.
func Wrap(next typestream.Sink, log logrus.FieldLogger) typestream.Sink {
	return &sink{next: next, log: log}
}

func (s *sink) fwd(event string, fields logrus.Fields, err error) error {
	e := s.log.WithField("event", event)
	if len(fields) > 0 {
		e = e.WithFields(fields)
	}
	if err != nil {
		e.WithError(err).Warn("event rejected")
		return err
	}
	e.Debug("event")
	return nil
}

func (s *sink) Null() error { return s.fwd("null", nil, s.next.Null()) }

func (s *sink) Bool(b bool) error {
	return s.fwd("bool", logrus.Fields{"value": b}, s.next.Bool(b))
}

func (s *sink) Int(i int) error {
	return s.fwd("int", logrus.Fields{"value": i}, s.next.Int(i))
}

func (s *sink) Uint(u uint) error {
	return s.fwd("uint", logrus.Fields{"value": u}, s.next.Uint(u))
}

func (s *sink) Int64(i int64) error {
	return s.fwd("int64", logrus.Fields{"value": i}, s.next.Int64(i))
}

func (s *sink) Uint64(u uint64) error {
	return s.fwd("uint64", logrus.Fields{"value": u}, s.next.Uint64(u))
}

func (s *sink) Double(f float64) error {
	return s.fwd("double", logrus.Fields{"value": f}, s.next.Double(f))
}

func (s *sink) String(v string) error {
	return s.fwd("string", logrus.Fields{"value": v}, s.next.String(v))
}

func (s *sink) Key(k string) error {
	return s.fwd("key", logrus.Fields{"key": k}, s.next.Key(k))
}

func (s *sink) BeginArray() error { return s.fwd("begin_array", nil, s.next.BeginArray()) }

func (s *sink) EndArray(n int) error {
	return s.fwd("end_array", logrus.Fields{"len": n}, s.next.EndArray(n))
}

func (s *sink) BeginObject() error { return s.fwd("begin_object", nil, s.next.BeginObject()) }

func (s *sink) EndObject(n int) error {
	return s.fwd("end_object", logrus.Fields{"len": n}, s.next.EndObject(n))
}
