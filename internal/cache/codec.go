package cache

import (
	"encoding/json"

	"orderdash/internal/model"
)

func encodeOrders(orders []model.Order) ([]byte, error) { return json.Marshal(orders) }

func decodeOrders(val []byte) ([]model.Order, error) {
	var out []model.Order
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, err
	}
	return out, nil
}
