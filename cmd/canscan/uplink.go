package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const connectTimeout = 5 * time.Second

// uplink mirrors decoded telemetry to an MQTT broker. Messages publish
// under <prefix>/<MessageType> as JSON, QoS 0: the bus is the source of
// truth, the broker is a best-effort mirror.
type uplink struct {
	client paho.Client
	prefix string
}

func newUplink(brokerURL, prefix string) (*uplink, error) {
	opts, err := clientOptions(brokerURL)
	if err != nil {
		return nil, err
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &uplink{client: client, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

func clientOptions(brokerURL string) (*paho.ClientOptions, error) {
	u, err := url.Parse(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("mqtt broker url: %w", err)
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(scheme + "://" + u.Host).
		SetClientID("canscan").
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	return opts, nil
}

// Publish sends one decoded message. Marshal or publish failures are
// dropped; the next frame carries fresher data anyway.
func (u *uplink) Publish(msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	u.client.Publish(u.prefix+"/"+typeName(msg), 0, false, payload)
}

func (u *uplink) Close() {
	u.client.Disconnect(250)
}

// typeName strips the package qualifier from a message's type.
func typeName(msg any) string {
	name := fmt.Sprintf("%T", msg)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
