package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vmihailenco/msgpack/v5"
)

type Event string

const (
	EventMatchStart  Event = "match:start"
	EventMatchStop   Event = "match:stop"
	EventMatchAction Event = "match:action"
	EventMatchConfig Event = "match:config"
)

var ErrMalformedFrame = errors.New("malformed pss frame")

var validate = validator.New()

// ID accepts both numbers and numeric strings; devices are not consistent about it.
type ID int

func parseID(s string) (ID, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(v), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := parseID(s)
		if err != nil {
			return err
		}
		*id = v
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n)
	return nil
}

func (id *ID) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		parsed, err := parseID(x)
		if err != nil {
			return err
		}
		*id = parsed
	case int8:
		*id = ID(x)
	case int16:
		*id = ID(x)
	case int32:
		*id = ID(x)
	case int64:
		*id = ID(x)
	case uint8:
		*id = ID(x)
	case uint16:
		*id = ID(x)
	case uint32:
		*id = ID(x)
	case uint64:
		*id = ID(x)
	default:
		return fmt.Errorf("invalid id type %T", v)
	}
	return nil
}

// Header is common to every frame.
type Header struct {
	MatchID   ID     `json:"matchId" validate:"required,gt=0"`
	Timestamp string `json:"timestamp"`
}

func (h Header) header() Header { return h }

// Time parses the device timestamp; frames without one are stamped with now.
func (h Header) Time(now time.Time) (time.Time, error) {
	if h.Timestamp == "" {
		return now, nil
	}
	t, err := time.Parse(time.RFC3339Nano, h.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrMalformedFrame, h.Timestamp)
	}
	return t.UTC(), nil
}

type StartData struct {
	Header
}

type StopData struct {
	Header
	HomeScore  *int    `json:"homeScore" validate:"omitempty,gte=0"`
	AwayScore  *int    `json:"awayScore" validate:"omitempty,gte=0"`
	ResultType *string `json:"resultType"`
	Decision   *string `json:"decision"`
}

type ActionData struct {
	Header
	ActionType   PssCode `json:"actionType" validate:"required"`
	CompetitorID ID      `json:"competitorId" validate:"required,gt=0"`
	RoundNumber  int     `json:"roundNumber" validate:"gte=0"`
	RoundTime    *string `json:"roundTime" validate:"omitempty,max=8"`
	Points       *int    `json:"points"`
	HitLevel     *int    `json:"hitLevel" validate:"omitempty,gte=0"`
}

// ConfigData durations are in seconds.
type ConfigData struct {
	Header
	RoundDuration       int            `json:"roundDuration" validate:"gt=0"`
	NumberOfRounds      int            `json:"numberOfRounds" validate:"gte=1"`
	BreakDuration       int            `json:"breakDuration" validate:"gte=0"`
	KyeShiDuration      int            `json:"kyeShiDuration" validate:"gte=0"`
	GoldenPointEnabled  *bool          `json:"goldenPointEnabled"`
	GoldenPointDuration *int           `json:"goldenPointDuration" validate:"omitempty,gt=0"`
	SensorThresholds    map[string]int `json:"sensorThresholds"`
}

// Payload is one of *StartData, *StopData, *ActionData, *ConfigData.
type Payload interface {
	header() Header
}

type Frame struct {
	Event   Event
	Payload Payload
}

type codec struct {
	envelope func(raw []byte) (Event, []byte, error)
	decode   func(data []byte, v interface{}) error
}

var jsonCodec = codec{
	envelope: func(raw []byte) (Event, []byte, error) {
		var env struct {
			Event Event           `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", nil, err
		}
		return env.Event, env.Data, nil
	},
	decode: json.Unmarshal,
}

func msgpackDecoder(data []byte) *msgpack.Decoder {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec
}

var msgpackCodec = codec{
	envelope: func(raw []byte) (Event, []byte, error) {
		var env struct {
			Event Event              `json:"event"`
			Data  msgpack.RawMessage `json:"data"`
		}
		if err := msgpackDecoder(raw).Decode(&env); err != nil {
			return "", nil, err
		}
		return env.Event, env.Data, nil
	},
	decode: func(data []byte, v interface{}) error {
		return msgpackDecoder(data).Decode(v)
	},
}

// Decode parses a JSON text frame or, when binary is set, a MessagePack frame with the same field names.
func Decode(raw []byte, binary bool) (*Frame, error) {
	c := jsonCodec
	if binary {
		c = msgpackCodec
	}

	event, data, err := c.envelope(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing data", ErrMalformedFrame)
	}

	var payload Payload
	switch event {
	case EventMatchStart:
		payload = &StartData{}
	case EventMatchStop:
		payload = &StopData{}
	case EventMatchAction:
		payload = &ActionData{}
	case EventMatchConfig:
		payload = &ConfigData{}
	default:
		return nil, fmt.Errorf("%w: unknown event %q", ErrMalformedFrame, event)
	}

	if err := c.decode(data, payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrame, event, err)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrame, event, err)
	}
	return &Frame{Event: event, Payload: payload}, nil
}

// EncodeMsgpack builds a binary frame. Used by replay tooling and tests.
func EncodeMsgpack(event Event, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	err := enc.Encode(struct {
		Event Event       `json:"event"`
		Data  interface{} `json:"data"`
	}{event, data})
	return buf.Bytes(), err
}
