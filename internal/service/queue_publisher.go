// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/cinema-seat-picker/internal/queue"
)

// AMQPPublisher publishes purchase events to the purchase.confirmed queue.
// A connection is opened per publish and its dial is bounded by the ctx
// deadline, or DialTimeout when ctx has none.
type AMQPPublisher struct {
    URL         string
    DialTimeout time.Duration
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
    return &AMQPPublisher{URL: url, DialTimeout: 10 * time.Second}
}

// dialTimeout is the time left on ctx, capped by DialTimeout.
func (p *AMQPPublisher) dialTimeout(ctx context.Context) time.Duration {
    d := p.DialTimeout
    if d <= 0 {
        d = 10 * time.Second
    }
    if dl, ok := ctx.Deadline(); ok {
        if left := time.Until(dl); left < d {
            d = left
        }
    }
    return d
}

// PublishPurchaseConfirmed marshals event and publishes it as a persistent
// message.  Any error is logged and returned.
func (p *AMQPPublisher) PublishPurchaseConfirmed(ctx context.Context, event q.PurchaseConfirmedEvent) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(p.dialTimeout(ctx)),
    })
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        q.PurchaseQueueName, // name
        true,                // durable
        false,               // autoDelete
        false,               // exclusive
        false,               // noWait
        nil,                 // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.PurchaseQueueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
