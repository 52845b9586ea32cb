package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/NewtTheWolf/sendblue"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// clientFactory returns a ready client and the fan-out limit for evaluate.
type clientFactory func() (*sendblue.Client, int, error)

// errUsage marks bad command lines. run prints the command usage for it.
var errUsage = errors.New("usage")

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string, newClient clientFactory, out io.Writer) error
}

var commands = []command{
	{name: "send", usage: "send -to N -content C [-media U] [-style S] [-callback U]", run: runSend},
	{name: "group", usage: "group (-to N1,N2 | -group-id G) -content C [-media U] [-style S] [-callback U]", run: runGroup},
	{name: "messages", usage: "messages [-cid C] [-number N] [-limit L] [-offset O] [-from T] [-to T]", run: runMessages},
	{name: "evaluate", usage: "evaluate N [N...]", run: runEvaluate},
	{name: "typing", usage: "typing -to N", run: runTyping},
}

func run(ctx context.Context, args []string, newClient clientFactory, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		err := c.run(ctx, args[1:], newClient, stdout)
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, errUsage):
			fmt.Fprintf(stderr, "usage: sendblue %s\n", c.usage)
			return exitUsage
		default:
			fmt.Fprintf(stderr, "error (%s): %v\n", sendblue.KindOf(err), err)
			return exitError
		}
	}

	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	printUsage(stderr)
	return exitUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	for _, c := range commands {
		fmt.Fprintf(w, "  sendblue %s\n", c.usage)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// optionalFlags are shared by send and group.
type optionalFlags struct {
	media, style, callback string
}

func (o *optionalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.media, "media", "", "media URL")
	fs.StringVar(&o.style, "style", "", "expressive send style")
	fs.StringVar(&o.callback, "callback", "", "status callback URL")
}

type optionalValues struct {
	media    sendblue.MediaURL
	style    sendblue.SendStyle
	callback sendblue.CallbackURL
}

func (o *optionalFlags) parse() (optionalValues, error) {
	var v optionalValues
	var err error
	if o.media != "" {
		if v.media, err = sendblue.ParseMediaURL(o.media); err != nil {
			return v, err
		}
	}
	if o.style != "" {
		if v.style, err = sendblue.ParseSendStyle(o.style); err != nil {
			return v, err
		}
	}
	if o.callback != "" {
		if v.callback, err = sendblue.ParseCallbackURL(o.callback); err != nil {
			return v, err
		}
	}
	return v, nil
}

func runSend(ctx context.Context, args []string, newClient clientFactory, out io.Writer) error {
	fs := newFlagSet("send")
	to := fs.String("to", "", "recipient number")
	content := fs.String("content", "", "message text")
	region := fs.String("region", "", "default region for numbers without +")
	var opt optionalFlags
	opt.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *to == "" || *content == "" {
		return errUsage
	}

	number, err := phonenumber.Parse(*to, *region)
	if err != nil {
		return err
	}
	vals, err := opt.parse()
	if err != nil {
		return err
	}
	b := sendblue.NewMessageBuilder().To(number).Content(*content).SendStyle(vals.style)
	if !vals.media.IsZero() {
		b.MediaURL(vals.media)
	}
	if !vals.callback.IsZero() {
		b.StatusCallback(vals.callback)
	}
	msg, err := b.Build()
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	resp, err := client.Send(ctx, msg)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func runGroup(ctx context.Context, args []string, newClient clientFactory, out io.Writer) error {
	fs := newFlagSet("group")
	to := fs.String("to", "", "comma separated recipient numbers")
	groupID := fs.String("group-id", "", "existing group id")
	content := fs.String("content", "", "message text")
	region := fs.String("region", "", "default region for numbers without +")
	var opt optionalFlags
	opt.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if (*to == "" && *groupID == "") || *content == "" {
		return errUsage
	}

	b := sendblue.NewGroupMessageBuilder().GroupID(*groupID).Content(*content)
	if *to != "" {
		numbers, err := phonenumber.ParseList(*to, *region)
		if err != nil {
			return err
		}
		b.Numbers(numbers...)
	}
	vals, err := opt.parse()
	if err != nil {
		return err
	}
	b.SendStyle(vals.style)
	if !vals.media.IsZero() {
		b.MediaURL(vals.media)
	}
	if !vals.callback.IsZero() {
		b.StatusCallback(vals.callback)
	}
	msg, err := b.Build()
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	resp, err := client.SendGroup(ctx, msg)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func runMessages(ctx context.Context, args []string, newClient clientFactory, out io.Writer) error {
	fs := newFlagSet("messages")
	cid := fs.String("cid", "", "contact id")
	number := fs.String("number", "", "filter by number")
	limit := fs.Int("limit", 0, "page size")
	offset := fs.Int("offset", 0, "offset")
	from := fs.String("from", "", "RFC 3339 lower bound")
	to := fs.String("to", "", "RFC 3339 upper bound")
	region := fs.String("region", "", "default region for numbers without +")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	b := sendblue.NewGetMessagesParamsBuilder().CID(*cid).Offset(*offset)
	if *limit != 0 {
		b.Limit(*limit)
	}
	if *number != "" {
		n, err := phonenumber.Parse(*number, *region)
		if err != nil {
			return err
		}
		b.Number(n)
	}
	if *from != "" {
		t, err := time.Parse(time.RFC3339, *from)
		if err != nil {
			return fmt.Errorf("%w: -from: %v", errUsage, err)
		}
		b.FromDate(t)
	}
	if *to != "" {
		t, err := time.Parse(time.RFC3339, *to)
		if err != nil {
			return fmt.Errorf("%w: -to: %v", errUsage, err)
		}
		b.ToDate(t)
	}
	params, err := b.Build()
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	resp, err := client.GetMessages(ctx, params)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

// evaluation is one line of the evaluate output.
type evaluation struct {
	Input   string           `json:"input"`
	Number  string           `json:"number,omitempty"`
	Service sendblue.Service `json:"service,omitempty"`
	Error   string           `json:"error,omitempty"`
	Kind    string           `json:"kind,omitempty"`
}

func runEvaluate(ctx context.Context, args []string, newClient clientFactory, out io.Writer) error {
	fs := newFlagSet("evaluate")
	region := fs.String("region", "", "default region for numbers without +")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return errUsage
	}

	client, limit, err := newClient()
	if err != nil {
		return err
	}
	sem := semaphore.NewWeighted(int64(max(limit, 1)))

	results := make([]evaluation, len(inputs))
	var (
		wg     sync.WaitGroup
		failed bool
		mu     sync.Mutex
	)
	fail := func(i int, err error) {
		results[i].Error = err.Error()
		results[i].Kind = sendblue.KindOf(err).String()
		mu.Lock()
		failed = true
		mu.Unlock()
	}

	for i, raw := range inputs {
		results[i].Input = raw
		if err := sem.Acquire(ctx, 1); err != nil {
			fail(i, &sendblue.Error{Kind: sendblue.KindTransport, Op: "evaluate service", Err: err})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			n, err := phonenumber.Parse(raw, *region)
			if err != nil {
				fail(i, err)
				return
			}
			resp, err := client.EvaluateService(ctx, &sendblue.EvaluateService{Number: n})
			if err != nil {
				fail(i, err)
				return
			}
			results[i].Number = resp.Number.E164()
			results[i].Service = resp.Service
		}()
	}
	wg.Wait()

	if err := printJSON(out, results); err != nil {
		return err
	}
	if failed {
		return errors.New("one or more numbers could not be evaluated")
	}
	return nil
}

func runTyping(ctx context.Context, args []string, newClient clientFactory, out io.Writer) error {
	fs := newFlagSet("typing")
	to := fs.String("to", "", "recipient number")
	region := fs.String("region", "", "default region for numbers without +")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *to == "" {
		return errUsage
	}

	number, err := phonenumber.Parse(*to, *region)
	if err != nil {
		return err
	}
	client, _, err := newClient()
	if err != nil {
		return err
	}
	resp, err := client.SendTypingIndicator(ctx, number)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
