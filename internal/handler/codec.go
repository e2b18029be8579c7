package handler

import "encoding/json"

// jsonCodec はprotobufではない素のGo構造体をConnectで送受信するためのコーデックです
// Connectの既定の "json" コーデックを置き換えます
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
