package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
	engineTypes "github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	"fleetledger/internal/logging"
)

// InitSocketIO wires a vehicle-telemetry namespace: a vehicle agent (or a
// simulator) emits "vehicle:location" with its own vehicle ID, this joins
// it to a per-vehicle room, and anyone subscribed to "subscribeVehicle"
// receives its updates — the same per-entity room pattern the teacher used
// for per-driver dispatch, repurposed from one driver per ride to one
// vehicle per fleet.
func InitSocketIO(redisClient *redis.Client) *socketio.Server {
	opts := &socketio.ServerOptions{}
	opts.SetCors(&engineTypes.Cors{Origin: "*"})

	io := socketio.NewServer(nil, opts)

	io.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		logging.Logger.Info("telemetry client connected", zap.String("socketId", string(socket.Id())))

		socket.On("vehicle:location", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}
			vehicleID, _ := data["vehicleId"].(string)
			if vehicleID == "" {
				return
			}
			socket.Join(socketio.Room("vehicle:" + vehicleID))

			if redisClient != nil {
				if lat, ok := data["lat"].(float64); ok {
					if lng, ok := data["lng"].(float64); ok {
						redisClient.GeoAdd(context.Background(), vehicleGeoKey, &redis.GeoLocation{
							Name:      vehicleID,
							Latitude:  lat,
							Longitude: lng,
						})
					}
				}
			}

			io.To(socketio.Room("vehicle:" + vehicleID)).Emit("vehicle:location:update", data)
		})

		socket.On("subscribeVehicle", func(args ...any) {
			if len(args) == 0 {
				return
			}
			data, ok := args[0].(map[string]any)
			if !ok {
				return
			}
			if vehicleID, _ := data["vehicleId"].(string); vehicleID != "" {
				socket.Join(socketio.Room("vehicle:" + vehicleID))
			}
		})
	})

	return io
}

const vehicleGeoKey = "vehicles:geo"
