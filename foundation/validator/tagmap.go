package validator

var tagMap = map[string]string{
	"required":      "required",
	"omitempty":     "optional",
	"email":         "invalid_email",
	"max":           "too_long",
	"min":           "too_short",
	"len":           "invalid_length",
	"oneof":         "invalid_choice",
	"hostname":      "invalid_hostname",
	"hostname_port": "invalid_address",
	"printascii":    "non_ascii",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
