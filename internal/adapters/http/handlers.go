package http

import (
	"errors"
	"net/http"
	"regexp"
	"sort"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/credential"
	"github.com/pumpchat/pumpchat/internal/domain"
	"github.com/pumpchat/pumpchat/internal/livekit"
	"github.com/pumpchat/pumpchat/internal/metadata"
)

// Operator-visible detail stays in logs; clients get this stable message.
const msgMisconfigured = "server misconfigured"

var addressShape = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// clientToken reads the per-browser token set by ClientTokenMiddleware,
// correlating log lines from the same client.
func clientToken(c *gin.Context) string {
	return c.GetString("client_token")
}

type Handlers struct {
	Resolver    *address.Resolver
	Metadata    *metadata.Service
	Issuer      *credential.Issuer
	RoomService *livekit.RoomServiceClient
}

// Resolve maps a candidate address (possibly a pool address) to the
// canonical token contract address.
func (h *Handlers) Resolve(c *gin.Context) {
	addr := c.Query("address")
	if addr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address parameter is required"})
		return
	}
	c.JSON(http.StatusOK, h.Resolver.Resolve(c.Request.Context(), addr))
}

// Token mints a join credential for a room. The display name is remembered
// in the cookie session once seen, so repeat visits keep their identity.
func (h *Handlers) Token(c *gin.Context) {
	room := c.Query("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room parameter is required"})
		return
	}

	sess := sessions.Default(c)
	username := c.Query("username")
	if username == "" {
		if saved, ok := sess.Get("username").(string); ok {
			username = saved
		}
	}

	identity, err := domain.NewIdentity(username)
	if err != nil {
		identity = domain.AnonymousIdentity()
	} else if username != "" {
		sess.Set("username", string(identity))
		_ = sess.Save()
	}

	token, err := h.Issuer.JoinToken(domain.RoomKey(room), identity)
	if err != nil {
		if errors.Is(err, credential.ErrNotConfigured) {
			log.Error().Err(err).Str("module", "adapters.http").Str("client", clientToken(c)).Msg("token issuance unconfigured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgMisconfigured})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Str("client", clientToken(c)).Msg("token issuance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// TokenInfo validates an address shape and returns best-effort display
// metadata. Provider unavailability degrades to placeholders, never a 5xx.
func (h *Handlers) TokenInfo(c *gin.Context) {
	addr := c.Query("address")
	if addr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address parameter is required"})
		return
	}
	if !addressShape.MatchString(addr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token address format"})
		return
	}

	info, _ := h.Metadata.Lookup(c.Request.Context(), addr)
	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"address": addr,
		"name":    info.Name,
		"symbol":  info.Symbol,
		"image":   info.Image,
	})
}

// Rooms lists active voice rooms enriched with token metadata, most crowded
// first.
func (h *Handlers) Rooms(c *gin.Context) {
	if h.RoomService == nil || !h.Issuer.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgMisconfigured})
		return
	}

	rooms, err := h.RoomService.ListRooms(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("client", clientToken(c)).Msg("room listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch rooms"})
		return
	}

	listings := make([]domain.RoomListing, len(rooms))
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(8)
	for i, room := range rooms {
		g.Go(func() error {
			info, _ := h.Metadata.Lookup(gctx, room.Name)
			listings[i] = domain.RoomListing{
				CA:           room.Name,
				Name:         info.Name,
				Symbol:       info.Symbol,
				Image:        info.Image,
				Participants: room.NumParticipants,
				CreatedAt:    room.CreationTime * 1000,
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Participants > listings[j].Participants
	})
	c.JSON(http.StatusOK, gin.H{"rooms": listings})
}
