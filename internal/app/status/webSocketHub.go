package status

import (
	"sync"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
)

// every subscriber gets every job event and filters by job id on its side,
// so the hub keeps a flat connection set with no per-job bookkeeping
var wsConnections = make(map[WsConn]bool)
var mapLock = sync.Mutex{}

//WsConn is interface for websocket handling in status service
type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	WriteJSON(v interface{}) error
}

func handleConnection(conn WsConn) {
	saveConnection(conn)
	defer deleteConnection(conn)
	defer conn.Close()
	for {
		// incoming messages are ignored, reading just tracks the connection life
		_, _, err := conn.ReadMessage()
		if err != nil {
			cmdapp.Log.Debugf("ws connection finished: %v", err)
			break
		}
	}
	cmdapp.Log.Infof("handleConnection finish")
}

func saveConnection(conn WsConn) {
	mapLock.Lock()
	defer mapLock.Unlock()
	wsConnections[conn] = true
	cmdapp.Log.Infof("saveConnection finish: %d", len(wsConnections))
}

func deleteConnection(conn WsConn) {
	mapLock.Lock()
	defer mapLock.Unlock()
	delete(wsConnections, conn)
	cmdapp.Log.Infof("deleteConnection finish: %d", len(wsConnections))
}

func getConnections() []WsConn {
	mapLock.Lock()
	defer mapLock.Unlock()
	res := make([]WsConn, 0, len(wsConnections))
	for c := range wsConnections {
		res = append(res, c)
	}
	return res
}
