package components

import (
	"log"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON marshals an object to a JSON string, returning "{}" on error
func JSON(v interface{}) string {
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		log.Printf("[WARNING] Failed to marshal JSON: %v", err)
		return "{}"
	}
	return string(b)
}

// HXTrigger builds an HX-Trigger header value firing one event with detail
func HXTrigger(event string, detail interface{}) string {
	return JSON(map[string]interface{}{event: detail})
}
