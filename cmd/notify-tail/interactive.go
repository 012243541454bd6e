package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/ticketflow/notify-go/pkg/client"
	"github.com/ticketflow/notify-go/pkg/connection"
	"github.com/ticketflow/notify-go/pkg/dispatch"
	"github.com/ticketflow/notify-go/pkg/log"
	"github.com/ticketflow/notify-go/pkg/notify"
)

// console is the interactive command loop.
type console struct {
	rl       *readline.Instance
	client   *client.Client
	endpoint string
	token    string

	mu      sync.Mutex
	subs    map[int]*dispatch.Subscription
	nextSub int
	events  bool
}

func newConsole(endpoint, token string) (*console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "notify> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &console{
		rl:       rl,
		endpoint: endpoint,
		token:    token,
		subs:     make(map[int]*dispatch.Subscription),
		nextSub:  1,
	}, nil
}

func (c *console) Close() {
	c.rl.Close()
}

func (c *console) attach(cl *client.Client) {
	c.client = cl

	cl.OnStateChange(func(old, new connection.State) {
		fmt.Fprintf(c.rl.Stdout(), "[channel] %s -> %s\n", old, new)
	})
	cl.OnReconnecting(func(attempt int, delay time.Duration) {
		fmt.Fprintf(c.rl.Stdout(), "[channel] reconnect attempt %d in %v\n", attempt, delay)
	})
	cl.OnClosed(func(reason error) {
		if reason != nil {
			fmt.Fprintf(c.rl.Stdout(), "[channel] closed: %v\n", reason)
		}
	})
}

// eventLogger returns a channel event logger that prints through the
// readline instance so output does not mangle the prompt.
func (c *console) eventLogger() log.Logger {
	return logFunc(func(event log.Event) {
		c.mu.Lock()
		enabled := c.events
		c.mu.Unlock()
		if !enabled {
			return
		}
		fmt.Fprintf(c.rl.Stdout(), "[event] %s %s %s\n",
			event.Kind, event.Direction, describeEvent(event))
	})
}

type logFunc func(log.Event)

func (f logFunc) Log(event log.Event) { f(event) }

func describeEvent(event log.Event) string {
	switch {
	case event.StateChange != nil:
		return fmt.Sprintf("%s->%s", event.StateChange.Old, event.StateChange.New)
	case event.Message != nil:
		if event.Message.Category != "" {
			return fmt.Sprintf("%s %s (%d bytes)", event.Message.Type, event.Message.Category, event.Message.Size)
		}
		return fmt.Sprintf("%s (%d bytes)", event.Message.Type, event.Message.Size)
	case event.Error != nil:
		return event.Error.Message
	default:
		return ""
	}
}

// Run starts the command loop and blocks until quit or EOF.
func (c *console) Run() error {
	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "connect", "c":
			c.cmdConnect()

		case "disconnect", "d":
			c.client.Disconnect()

		case "state", "st":
			fmt.Fprintf(c.rl.Stdout(), "%s\n", c.client.State())

		case "sub", "s":
			c.cmdSub(args)

		case "subs":
			c.cmdSubs()

		case "unsub", "u":
			c.cmdUnsub(args)

		case "invoke", "i":
			c.cmdInvoke(args)

		case "categories", "cats":
			for _, cat := range notify.Categories() {
				fmt.Fprintf(c.rl.Stdout(), "  %s\n", cat)
			}

		case "events":
			c.cmdEvents(args)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return nil

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Notification Channel Commands:
  Channel:
    connect            - Connect to the push endpoint
    disconnect         - Tear the channel down
    state              - Show the channel state

  Subscriptions:
    sub <category|*>   - Subscribe to a category (or all via *)
    subs               - List active subscriptions
    unsub <n>          - Cancel subscription n
    categories         - List known categories

  Remote calls:
    invoke <method> [json-arg ...] - Invoke a server method

  General:
    events on|off      - Toggle channel event tracing
    help               - Show this help
    quit               - Exit`)
}

func (c *console) cmdConnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := c.client.Connect(ctx, c.token); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "connected to %s\n", c.endpoint)
}

func (c *console) cmdSub(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: sub <category|*>")
		return
	}

	category := notify.Category(args[0])
	sub, err := c.client.Subscribe(category, func(n notify.Notification) {
		c.printNotification(n)
	})
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "subscribe failed: %v\n", err)
		return
	}

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sub
	c.mu.Unlock()

	fmt.Fprintf(c.rl.Stdout(), "subscription %d: %s\n", id, category)
}

func (c *console) cmdSubs() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(c.rl.Stdout(), "  %d: %s\n", id, c.subs[id].Category())
	}
	c.mu.Unlock()
}

func (c *console) cmdUnsub(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: unsub <n>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "bad subscription number: %s\n", args[0])
		return
	}

	c.mu.Lock()
	sub, ok := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()

	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "no subscription %d\n", id)
		return
	}
	sub.Cancel()
	fmt.Fprintf(c.rl.Stdout(), "cancelled %d\n", id)
}

func (c *console) cmdInvoke(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "usage: invoke <method> [json-arg ...]")
		return
	}

	method := args[0]
	invokeArgs := make([]any, 0, len(args)-1)
	for _, raw := range args[1:] {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			// Bare words are passed as strings.
			v = raw
		}
		invokeArgs = append(invokeArgs, v)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	value, err := c.client.Invoke(ctx, method, invokeArgs...)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "invoke failed: %v\n", err)
		return
	}
	if len(value) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "ok")
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "%s\n", value)
}

func (c *console) cmdEvents(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(c.rl.Stdout(), "usage: events on|off")
		return
	}
	c.mu.Lock()
	c.events = args[0] == "on"
	c.mu.Unlock()
}

func (c *console) printNotification(n notify.Notification) {
	out := c.rl.Stdout()
	fmt.Fprintf(out, "\n[%s] %s  %s\n", n.Timestamp.Local().Format("15:04:05"), n.Category, n.Title)
	fmt.Fprintf(out, "  %s\n", n.Message)
	if len(n.Data) > 0 {
		fmt.Fprintf(out, "  data: %s\n", n.Data)
	}
}
