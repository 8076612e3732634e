// Command bundle-import validates a directory of exported model artifacts and
// stores them in a SQLite bundle file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traffic-hotspot-api/bundle"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	dir := flag.String("dir", "../ml/models", "Directory containing the exported artifacts")
	dbPath := flag.String("db", "../ml/models/bundle.db", "Path to the SQLite bundle file")
	notify := flag.String("notify", "", "MQTT broker URL to announce the import on (optional)")
	topic := flag.String("topic", "hotspot/models/reload", "MQTT topic that triggers a reload")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := importBundle(ctx, *dir, *dbPath)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("imported bundle: dir=%s db=%s categories=%d trained=%s",
		*dir, *dbPath, b.Schema.Len(), b.Metadata.TrainingDate)

	if *notify != "" {
		if err := announce(*notify, *topic); err != nil {
			log.Fatalf("reload announce failed: %v", err)
		}
		log.Printf("reload announced on topic=%s", *topic)
	}
}

// importBundle reads every artifact from dir, checks they decode as one
// consistent bundle and writes them to the SQLite store in one transaction.
func importBundle(ctx context.Context, dir, dbPath string) (*bundle.Bundle, error) {
	src := bundle.NewDirStore(dir)
	raw := make(map[string][]byte, len(bundle.Artifacts))
	for _, name := range bundle.Artifacts {
		data, err := src.Get(ctx, name)
		if err != nil {
			return nil, &bundle.LoadError{Artifact: name, Err: err}
		}
		raw[name] = data
	}

	b, err := bundle.Decode(raw)
	if err != nil {
		return nil, err
	}

	store, err := bundle.OpenSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer store.Close()

	if err := store.PutAll(ctx, raw); err != nil {
		return nil, err
	}
	return b, nil
}

func announce(brokerURL, topic string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("bundle-import-" + time.Now().Format("20060102150405"))

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return err
	}
	defer client.Disconnect(250)

	token = client.Publish(topic, 1, false, time.Now().UTC().Format(time.RFC3339))
	token.Wait()
	return token.Error()
}
