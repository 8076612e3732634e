package services

import (
	"context"
	"log"
	"time"

	"traffic-hotspot-api/bundle"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ReloadWatcher reloads the model bundle whenever a message arrives on the
// reload topic. The payload is ignored.
type ReloadWatcher struct {
	registry *bundle.Registry
	store    bundle.Store
	topic    string
	client   mqtt.Client
}

func NewReloadWatcher(registry *bundle.Registry, store bundle.Store, topic string) *ReloadWatcher {
	return &ReloadWatcher{registry: registry, store: store, topic: topic}
}

// HandleMessage runs one reload. It is the MQTT message callback.
func (w *ReloadWatcher) HandleMessage(ctx context.Context) {
	if _, err := w.registry.Reload(ctx, w.store); err != nil {
		log.Printf("mqtt reload failed, keeping current bundle: %v", err)
	}
}

// Start connects to brokerURL and subscribes on every (re)connect. Reloads
// run on the client's callback goroutine under ctx.
func (w *ReloadWatcher) Start(ctx context.Context, brokerURL string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("hotspot-api-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		log.Printf("reload requested via mqtt topic=%s", message.Topic())
		w.HandleMessage(ctx)
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(w.topic, 1, nil)
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqtt subscribe error: %v", token.Error())
			return
		}
		log.Printf("reload watcher subscribed to topic=%s", w.topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	}

	w.client = mqtt.NewClient(opts)
	token := w.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

func (w *ReloadWatcher) Stop() {
	if w.client != nil {
		w.client.Disconnect(250)
	}
}
