package pipeline

import (
	"context"
	"fmt"
	log "log/slog"
	"math/rand"
	"time"

	"tala/internal/convo"
	"tala/internal/intent"
	"tala/internal/session"
	"tala/internal/weather"
	"tala/pkg/audioconv"
	"tala/pkg/protocol"
)

// External collaborators. All are single-shot and fallible; the pipeline
// turns their failures into spoken apologies or error notices, never crashes.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

type WeatherService interface {
	Lookup(ctx context.Context, city string) (weather.Report, error)
}

type NewsService interface {
	Headlines(ctx context.Context, topic string) ([]string, error)
}

type ChatService interface {
	Complete(ctx context.Context, system string, history []convo.Turn, user string) (string, error)
	SummarizeHeadlines(ctx context.Context, headlines []string, lang intent.Lang) (string, error)
}

// Pipeline drives one utterance from upload to spoken reply.
type Pipeline struct {
	STT     Transcriber
	TTS     Synthesizer
	Weather WeatherService
	News    NewsService
	Chat    ChatService

	Store   *convo.Store
	Chunker protocol.Chunker
	Loc     *time.Location

	CallTimeout time.Duration
}

var greetings = []string{
	"Hello! How can I help you today?",
	"Hi there, I'm listening.",
	"Kumusta! Ano ang maitutulong ko sa iyo?",
	"Magandang araw! What can I do for you?",
}

var weatherApology = map[intent.Lang]string{
	intent.LangEnglish:  "Sorry, I couldn't get the weather right now.",
	intent.LangFilipino: "Paumanhin, hindi ko makuha ang lagay ng panahon ngayon.",
}

var newsApology = map[intent.Lang]string{
	intent.LangEnglish:  "Sorry, I couldn't get the news right now.",
	intent.LangFilipino: "Paumanhin, hindi ko makuha ang balita ngayon.",
}

var chatApology = map[intent.Lang]string{
	intent.LangEnglish:  "Sorry, I couldn't think of an answer right now.",
	intent.LangFilipino: "Paumanhin, wala akong maisagot ngayon.",
}

// Greet synthesizes a random greeting in the session voice and streams it.
// The greeting is not part of the conversation log.
func (p *Pipeline) Greet(ctx context.Context, w protocol.FrameWriter, sess *session.Session) error {
	phrase := greetings[rand.Intn(len(greetings))]

	cctx, cancel := p.callCtx(ctx)
	audio, err := p.TTS.Synthesize(cctx, phrase, sess.Voice)
	cancel()
	if err != nil {
		return fmt.Errorf("greeting synthesis: %w", err)
	}
	return p.Chunker.Send(w, audio)
}

// HandleUtterance runs the full Processing phase: transcribe, route, reply,
// persist, synthesize, stream. Every path ends with a reply, an apology, or
// an explicit error notice — the device never waits without a terminal
// signal. Send failures on a dead connection are logged and swallowed.
func (p *Pipeline) HandleUtterance(ctx context.Context, w protocol.FrameWriter, sess *session.Session, pcm []byte) {
	if err := w.WriteText([]byte(protocol.FrameProcessing)); err != nil {
		log.Warn("Failed to ack processing", "session", sess.ID, "err", err)
		return
	}

	wav := pcm
	if !audioconv.IsWAV(pcm) {
		var err error
		wav, err = audioconv.PCM16WAV(pcm, audioconv.DefaultSampleRate, audioconv.DefaultChannels)
		if err != nil {
			log.Error("Failed to wrap upload", "session", sess.ID, "err", err)
			p.notifyError(w, "bad audio upload")
			return
		}
	}

	cctx, cancel := p.callCtx(ctx)
	transcript, err := p.STT.Transcribe(cctx, wav)
	cancel()
	if err != nil || transcript == "" {
		log.Warn("Transcription failed", "session", sess.ID, "err", err)
		p.notifyError(w, "could not understand the audio")
		return
	}

	log.Info("Transcribed", "session", sess.ID, "text", transcript)
	if err := w.WriteText(protocol.Transcript(transcript)); err != nil {
		log.Warn("Failed to send transcript", "session", sess.ID, "err", err)
		return
	}

	res := intent.Classify(transcript)
	log.Debug("Routed", "session", sess.ID, "intent", res.Kind, "lang", res.Lang)

	reply := p.replyFor(ctx, res, transcript, sess.Prompt)
	p.Store.AppendExchange(transcript, reply)

	cctx, cancel = p.callCtx(ctx)
	audio, err := p.TTS.Synthesize(cctx, reply, sess.Voice)
	cancel()
	if err != nil {
		log.Error("Synthesis failed", "session", sess.ID, "err", err)
		p.notifyError(w, "could not synthesize the reply")
		return
	}

	if err := p.Chunker.Send(w, audio); err != nil {
		log.Warn("Failed to stream reply", "session", sess.ID, "err", err)
	}
}

// replyFor resolves one of the four branches to reply text. Handler failures
// become fixed apologies in the triggering language.
func (p *Pipeline) replyFor(ctx context.Context, res intent.Result, transcript, prompt string) string {
	switch res.Kind {
	case intent.KindWeather:
		return p.weatherReply(ctx, res)
	case intent.KindNews:
		return p.newsReply(ctx, res)
	case intent.KindTime:
		return p.timeReply(res)
	default:
		return p.chatReply(ctx, transcript, prompt, res.Lang)
	}
}

func (p *Pipeline) weatherReply(ctx context.Context, res intent.Result) string {
	cctx, cancel := p.callCtx(ctx)
	defer cancel()

	rep, err := p.Weather.Lookup(cctx, res.City)
	if err != nil {
		log.Warn("Weather lookup failed", "city", res.City, "err", err)
		return weatherApology[res.Lang]
	}

	if res.Lang == intent.LangFilipino {
		return fmt.Sprintf("Ang panahon sa %s ay %s at ang temperatura ay %.0f digri Selsiyus.",
			rep.City, rep.Description, rep.TempC)
	}
	return fmt.Sprintf("The weather in %s is %s with a temperature of %.0f degrees Celsius.",
		rep.City, rep.Description, rep.TempC)
}

func (p *Pipeline) newsReply(ctx context.Context, res intent.Result) string {
	cctx, cancel := p.callCtx(ctx)
	defer cancel()

	headlines, err := p.News.Headlines(cctx, res.Topic)
	if err != nil {
		log.Warn("News lookup failed", "topic", res.Topic, "err", err)
		return newsApology[res.Lang]
	}

	summary, err := p.Chat.SummarizeHeadlines(cctx, headlines, res.Lang)
	if err != nil {
		log.Warn("Headline summary failed", "err", err)
		return newsApology[res.Lang]
	}
	return summary
}

// timeReply is the only purely local branch.
func (p *Pipeline) timeReply(res intent.Result) string {
	now := time.Now().In(p.Loc)
	day := now.Format("Monday, January 2, 2006")
	clock := now.Format("3:04 PM")

	if res.Lang == intent.LangFilipino {
		return fmt.Sprintf("Ngayon ay %s, at ang oras ay %s.", day, clock)
	}
	return fmt.Sprintf("Today is %s, and the time is %s.", day, clock)
}

func (p *Pipeline) chatReply(ctx context.Context, transcript, prompt string, lang intent.Lang) string {
	cctx, cancel := p.callCtx(ctx)
	defer cancel()

	system := fmt.Sprintf("%s\nThe current date and time is %s.",
		prompt, time.Now().In(p.Loc).Format("Monday, January 2, 2006, 3:04 PM"))

	reply, err := p.Chat.Complete(cctx, system, p.Store.Snapshot(), transcript)
	if err != nil {
		log.Warn("Chat completion failed", "err", err)
		return chatApology[lang]
	}
	return reply
}

func (p *Pipeline) notifyError(w protocol.FrameWriter, msg string) {
	if err := w.WriteText(protocol.ErrorNotice(msg)); err != nil {
		log.Warn("Failed to send error notice", "err", err)
	}
}

func (p *Pipeline) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
