package handlers

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/errs"
	"github.com/backsoul/teamquiz/pkg/services"
	websocketHub "github.com/backsoul/teamquiz/pkg/websocket"
)

// Segundos de anticipación del aviso de tiempo
const timeWarningLeadSec = 10

var upgrader = websocket.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

// RealtimeHandler es la pasarela de comandos en tiempo real: el único
// punto de entrada del tráfico bidireccional. Cada fallo de un comando se
// convierte en un evento "error" al socket que lo originó; nunca tumba la
// conexión ni afecta al resto de la sala.
type RealtimeHandler struct {
	hub      *websocketHub.Hub
	sessions *services.SessionService
	tokens   *auth.TokenService

	mu     sync.Mutex
	timers map[string]*questionTimers
}

type questionTimers struct {
	warn *time.Timer
	end  *time.Timer
}

func (t *questionTimers) stop() {
	if t == nil {
		return
	}
	if t.warn != nil {
		t.warn.Stop()
	}
	if t.end != nil {
		t.end.Stop()
	}
}

func NewRealtimeHandler(hub *websocketHub.Hub, sessions *services.SessionService, tokens *auth.TokenService) *RealtimeHandler {
	return &RealtimeHandler{
		hub:      hub,
		sessions: sessions,
		timers:   make(map[string]*questionTimers),
		tokens:   tokens,
	}
}

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type sessionCodePayload struct {
	SessionCode string `json:"sessionCode"`
}

// HandleWebSocket maneja GET /ws: autentica, hace el upgrade y atiende el
// loop de lectura de la conexión
func (h *RealtimeHandler) HandleWebSocket(ctx *fasthttp.RequestCtx) {
	principal, err := h.tokens.FromRequest(ctx)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}

	err = upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		client := websocketHub.NewClient(ws, principal.Role, principal.TeamID)
		defer h.hub.Leave(client)

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				return
			}
			h.Dispatch(client, raw)
		}
	})
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
	}
}

// Dispatch procesa un comando entrante. Cualquier pánico o error queda
// confinado a un evento "error" hacia el emisor.
func (h *RealtimeHandler) Dispatch(client *websocketHub.Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in realtime command: %v", r)
			client.Send(websocketHub.EventError, map[string]interface{}{
				"message": "internal error",
			})
		}
	}()

	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(client, errs.InvalidRequestf("malformed message"))
		return
	}

	var err error
	switch msg.Event {
	case websocketHub.CommandJoinSession:
		err = h.handleJoinSession(client, msg.Data)
	case websocketHub.CommandGetCurrentQuestion:
		err = h.handleGetCurrentQuestion(client, msg.Data)
	case websocketHub.CommandAdminNextQuestion:
		err = h.handleAdminNextQuestion(client, msg.Data)
	case websocketHub.CommandAdminEndSession:
		err = h.handleAdminEndSession(client, msg.Data)
	default:
		err = errs.InvalidRequestf("unknown event %q", msg.Event)
	}
	if err != nil {
		h.sendError(client, err)
	}
}

func (h *RealtimeHandler) sendError(client *websocketHub.Client, err error) {
	client.Send(websocketHub.EventError, map[string]interface{}{
		"message": err.Error(),
	})
}

func (h *RealtimeHandler) handleJoinSession(client *websocketHub.Client, data json.RawMessage) error {
	payload, err := decodeSessionCode(data)
	if err != nil {
		return err
	}
	if _, err := h.sessions.GetSession(payload.SessionCode); err != nil {
		return err
	}

	h.hub.Join(client, payload.SessionCode)
	return client.Send(websocketHub.EventJoinSuccess, map[string]interface{}{
		"sessionCode": payload.SessionCode,
	})
}

func (h *RealtimeHandler) handleGetCurrentQuestion(client *websocketHub.Client, data json.RawMessage) error {
	payload, err := decodeSessionCode(data)
	if err != nil {
		return err
	}

	question, err := h.sessions.CurrentQuestion(payload.SessionCode)
	if err != nil {
		return err
	}
	return client.Send(websocketHub.EventQuestionCurrent, map[string]interface{}{
		"sessionCode": payload.SessionCode,
		"question":    question,
	})
}

func (h *RealtimeHandler) handleAdminNextQuestion(client *websocketHub.Client, data json.RawMessage) error {
	if client.Role != auth.RoleAdmin {
		return errs.Unauthorizedf("admin access required")
	}
	payload, err := decodeSessionCode(data)
	if err != nil {
		return err
	}

	result, err := h.sessions.AdvanceSession(payload.SessionCode)
	if err != nil {
		return err
	}

	if result.Finished {
		h.cancelQuestionTimers(payload.SessionCode)
		h.hub.SessionEnded(payload.SessionCode)
		return client.Send(websocketHub.AckAdminNextQuestion, map[string]interface{}{
			"sessionCode": payload.SessionCode,
			"success":     true,
			"finished":    true,
			"message":     result.Message,
		})
	}

	h.hub.QuestionStarted(payload.SessionCode, result.CurrentQuestionIndex, *result.Question)
	h.scheduleQuestionTimers(payload.SessionCode, result.CurrentQuestionIndex, result.Question.TimeLimitSec)

	return client.Send(websocketHub.AckAdminNextQuestion, map[string]interface{}{
		"sessionCode":          payload.SessionCode,
		"success":              true,
		"finished":             false,
		"currentQuestionIndex": result.CurrentQuestionIndex,
		"totalQuestions":       result.TotalQuestions,
	})
}

func (h *RealtimeHandler) handleAdminEndSession(client *websocketHub.Client, data json.RawMessage) error {
	if client.Role != auth.RoleAdmin {
		return errs.Unauthorizedf("admin access required")
	}
	payload, err := decodeSessionCode(data)
	if err != nil {
		return err
	}

	if _, err := h.sessions.EndSession(payload.SessionCode); err != nil {
		return err
	}

	h.cancelQuestionTimers(payload.SessionCode)
	h.hub.SessionEnded(payload.SessionCode)
	return client.Send(websocketHub.AckAdminEndSession, map[string]interface{}{
		"sessionCode": payload.SessionCode,
		"success":     true,
	})
}

func decodeSessionCode(data json.RawMessage) (*sessionCodePayload, error) {
	var payload sessionCodePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, errs.InvalidRequestf("malformed payload")
		}
	}
	if payload.SessionCode == "" {
		return nil, errs.InvalidRequestf("Session code is required")
	}
	return &payload, nil
}

// scheduleQuestionTimers programa el aviso de tiempo y el cierre de la
// pregunta según su límite; el siguiente advance o end los cancela.
// El intercambio viejo→nuevo ocurre bajo un solo lock para que dos advance
// concurrentes nunca pisen un juego de timers sin detenerlo.
func (h *RealtimeHandler) scheduleQuestionTimers(sessionCode string, questionIndex, limitSec int) {
	var timers *questionTimers
	if limitSec > 0 {
		timers = &questionTimers{}
		if limitSec > timeWarningLeadSec {
			timers.warn = time.AfterFunc(time.Duration(limitSec-timeWarningLeadSec)*time.Second, func() {
				h.hub.QuestionTimeWarning(sessionCode, questionIndex, timeWarningLeadSec)
			})
		}
		timers.end = time.AfterFunc(time.Duration(limitSec)*time.Second, func() {
			h.hub.QuestionEnded(sessionCode, questionIndex)
		})
	}

	h.mu.Lock()
	prev := h.timers[sessionCode]
	if timers != nil {
		h.timers[sessionCode] = timers
	} else {
		delete(h.timers, sessionCode)
	}
	h.mu.Unlock()

	prev.stop()
}

func (h *RealtimeHandler) cancelQuestionTimers(sessionCode string) {
	h.mu.Lock()
	timers := h.timers[sessionCode]
	delete(h.timers, sessionCode)
	h.mu.Unlock()

	timers.stop()
}
