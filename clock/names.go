package clock

import "g4boot/errcode"

// Text forms used by board descriptor files ("hse", "pllq", ...). The
// methods follow the gopkg.in/yaml.v2 Marshaler and Unmarshaler shapes, so
// this package needs no YAML import.

func (u USBClock) String() string {
	if u == USBFromPLLQ {
		return "pllq"
	}
	return "hsi48"
}

// ParseSource accepts "hse" or "hsi".
func ParseSource(s string) (Source, error) {
	switch s {
	case "hse", "HSE":
		return SourceHSE, nil
	case "hsi", "HSI", "hsi16":
		return SourceHSI, nil
	}
	return 0, errcode.New(errcode.InvalidParams, "clock.ParseSource", s)
}

// ParseUSBClock accepts "hsi48" or "pllq".
func ParseUSBClock(s string) (USBClock, error) {
	switch s {
	case "hsi48", "HSI48", "crs":
		return USBFromHSI48, nil
	case "pllq", "PLLQ":
		return USBFromPLLQ, nil
	}
	return 0, errcode.New(errcode.InvalidParams, "clock.ParseUSBClock", s)
}

func (s Source) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *Source) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	v, err := ParseSource(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (u USBClock) MarshalYAML() (interface{}, error) { return u.String(), nil }

func (u *USBClock) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	v, err := ParseUSBClock(text)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
