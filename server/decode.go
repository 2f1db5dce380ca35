package server

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/minaorangina/guinote/protocol"
	"github.com/mitchellh/mapstructure"
)

var cmdType = reflect.TypeOf(protocol.Null)

// cmdHookFunc lets clients send commands by name as well as by number
func cmdHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != cmdType || from.Kind() != reflect.String {
			return data, nil
		}
		cmd, ok := protocol.NameToCmd[data.(string)]
		if !ok {
			return nil, fmt.Errorf("unknown command %q", data)
		}
		return cmd, nil
	}
}

// decodeInbound reads a loosely typed client message
func decodeInbound(data []byte) (protocol.InboundMessage, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return protocol.InboundMessage{}, err
	}

	var msg protocol.InboundMessage
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: cmdHookFunc(),
		Result:     &msg,
		TagName:    "mapstructure",
	})
	if err != nil {
		return protocol.InboundMessage{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return protocol.InboundMessage{}, err
	}
	return msg, nil
}
