package whatsapp

import (
	"TrattoriaGolang/database/postgres"
	"TrattoriaGolang/internal/entity"
	"context"
	"fmt"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	"os"
	"time"
)

// INotifier pings the owner's phone when a call ends in a reservation, so
// the floor gets a heads-up without watching the dashboard. Strictly best
// effort: a failed notification never fails the analysis.
type INotifier interface {
	NotifyReservation(ctx context.Context, conversationID string, res entity.ReservationResult) error
	Disconnect() error
	IsConnected() bool
}

type reservationNotifier struct {
	client      *whatsmeow.Client
	ownerNumber string
}

func New() (INotifier, error) {
	ownerNumber := os.Getenv("WHATSAPP_OWNER_NUMBER")
	if ownerNumber == "" {
		return nil, fmt.Errorf("WHATSAPP_OWNER_NUMBER is not configured")
	}

	dsn := postgres.FormatDSN()

	dbLog := waLog.Stdout("Database", "INFO", true)
	container, err := sqlstore.New(context.Background(), "postgres", dsn, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))

	connected := make(chan bool)
	client.AddEventHandler(func(evt interface{}) {
		if _, ok := evt.(*events.Connected); ok {
			connected <- true
		}
	})

	if client.Store.ID == nil {
		qrChan, _ := client.GetQRChannel(context.Background())
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					fmt.Println("QR Code:", evt.Code)
				}
			}
		}()
	} else {
		if err := client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	select {
	case <-connected:
		fmt.Println("WhatsApp connected")
	case <-time.After(60 * time.Second):
		return nil, fmt.Errorf("connection timeout")
	}

	return &reservationNotifier{
		client:      client,
		ownerNumber: ownerNumber,
	}, nil
}

func (w *reservationNotifier) NotifyReservation(ctx context.Context, conversationID string, res entity.ReservationResult) error {
	jid := types.NewJID(w.ownerNumber, types.DefaultUserServer)

	text := fmt.Sprintf("New reservation from call %s: %s", conversationID, res.Date)
	if res.Time != "" {
		text += " " + res.Time
	}
	text += fmt.Sprintf(", party of %d", res.PartySize)
	if res.CustomerName != "" {
		text += " for " + res.CustomerName
	}
	if res.Notes != "" {
		text += " (" + res.Notes + ")"
	}

	waMsg := &waProto.Message{
		Conversation: proto.String(text),
	}

	_, err := w.client.SendMessage(ctx, jid, waMsg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (w *reservationNotifier) Disconnect() error {
	w.client.Disconnect()
	return nil
}

func (w *reservationNotifier) IsConnected() bool {
	return w.client.IsConnected()
}
