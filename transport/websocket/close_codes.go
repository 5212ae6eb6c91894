package websocket

import "nhooyr.io/websocket"

// Close codes that end a connection without it being an error.
var expectedCloseCodes = []websocket.StatusCode{
	websocket.StatusNormalClosure,
	websocket.StatusGoingAway,
}

func normalizeCloseError(err error) error {
	status := websocket.CloseStatus(err)
	for _, expected := range expectedCloseCodes {
		if status == expected {
			return nil
		}
	}
	return err
}
