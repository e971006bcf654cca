package storage

import (
	json "github.com/goccy/go-json"
)

func encode[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}

func decode[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
