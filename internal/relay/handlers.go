package relay

import (
	"github.com/rs/zerolog/log"

	"orbit-relay/internal/level"
	"orbit-relay/internal/protocol"
)

// Broadcast buffer margins: per written recipient plus a flat tail, covering
// the custom item table and any framing slack. Packets are never fragmented;
// one broadcast is one frame.
const (
	perRecipientMargin = 16
	flatMargin         = 256
)

func (o *Orchestrator) handleLogin(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.Login)
	if s.Authenticated {
		return ErrAlreadyAuthenticated
	}

	acct, err := o.auth.Authenticate(p.AccountID, p.Token)
	if err != nil {
		_ = s.Send(&protocol.LoginFailed{Reason: err.Error()})
		return ErrNotAuthenticated
	}

	s.AccountID = acct.ID
	s.Authenticated = true
	s.Moderator = acct.Role.Moderator()
	s.Invisible = p.Invisible

	o.profiles.Put(acct, p.Invisible)
	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		lm.CreatePlayer(acct.ID, p.Invisible)
	})

	log.Info().Int32("account_id", acct.ID).Str("name", acct.Name).Bool("moderator", s.Moderator).Msg("player logged in")
	return s.Send(&protocol.LoggedIn{Moderator: s.Moderator})
}

func (o *Orchestrator) handleLevelJoin(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.LevelJoin)

	s.Unlisted = p.Unlisted
	oldLevel := s.LevelID
	s.LevelID = p.LevelID

	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		if oldLevel != 0 {
			lm.RemoveFromLevel(oldLevel, s.AccountID)
		}
		if p.LevelID != 0 {
			lm.AddToLevel(p.LevelID, s.AccountID, p.Unlisted)
		}
	})

	log.Debug().Int32("account_id", s.AccountID).Int64("level_id", p.LevelID).Int64("old_level_id", oldLevel).Msg("level join")
	return nil
}

func (o *Orchestrator) handleLevelLeave(s *Session, _ protocol.Packet) error {
	levelID := s.LevelID
	s.LevelID = 0
	if levelID == 0 {
		return nil
	}

	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		lm.RemoveFromLevel(levelID, s.AccountID)
	})
	return nil
}

// handlePlayerData is the hot path. One room-lock scope covers the state
// upsert, counter actions, the recipient count/size measurement pass and the
// fill pass into a pre-sized buffer, so membership cannot change between
// measure and fill. Sends happen after the lock is released.
func (o *Orchestrator) handlePlayerData(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.PlayerData)
	if !s.OnLevel() {
		return ErrUnexpectedPlayerData
	}

	accountID := s.AccountID
	levelID := s.LevelID
	isMod := s.Moderator
	wantMeta := p.Meta != nil

	var (
		recipients int
		metas      []protocol.AssociatedPlayerMeta
		frame      []byte
	)

	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		lm.SetPlayerData(accountID, &p.Data)
		if len(p.CounterChanges) > 0 {
			lm.RunCounterActions(levelID, p.CounterChanges)
		}
		if wantMeta {
			lm.SetPlayerMeta(accountID, p.Meta)
		}

		// Measure: count eligible recipients, collect their metadata if the
		// sender refreshed its own, and estimate the serialized state size.
		estimated := 0
		lm.ForEachPlayerOnLevel(levelID, func(pl *level.Player) {
			if pl.AccountID == accountID || (pl.Invisible && !isMod) {
				return
			}
			if wantMeta {
				metas = append(metas, protocol.AssociatedPlayerMeta{AccountID: pl.AccountID, Meta: pl.Meta})
			}
			estimated += protocol.AssociatedPlayerStateSize
			recipients++
		})

		var items map[uint16]int32
		if lvl, ok := lm.GetLevel(levelID); ok {
			items = lvl.CustomItems
		}

		if recipients == 0 {
			// Nobody to broadcast to. Solo players still get the level's item
			// overrides, if it has any.
			if len(items) > 0 {
				frame = encodeOrLog(&protocol.LevelData{CustomItems: items})
			}
			return
		}

		// Fill: one exactly-pre-sized buffer, capped at the measured count
		// even if membership were to change underneath.
		buf := protocol.NewBuffer(protocol.TagSize + 4 + estimated + recipients*perRecipientMargin + flatMargin)
		buf.WriteU16(uint16(protocol.TagLevelData))
		buf.WriteU32(uint32(recipients))
		written := 0
		lm.ForEachPlayerOnLevel(levelID, func(pl *level.Player) {
			if written >= recipients || pl.AccountID == accountID || (pl.Invisible && !isMod) {
				return
			}
			buf.WriteI32(pl.AccountID)
			pl.Data.EncodeTo(buf)
			written++
		})
		protocol.WriteCustomItems(buf, items)

		if err := buf.Err(); err != nil {
			log.Error().Err(err).Int64("level_id", levelID).Int("recipients", recipients).Msg("level data buffer overflow")
			return
		}
		frame = buf.Bytes()
	})

	if frame != nil {
		if err := s.SendFrame(frame); err != nil {
			return err
		}
	}
	if len(metas) > 0 {
		return s.Send(&protocol.LevelPlayerMetadata{Players: metas})
	}
	return nil
}

func (o *Orchestrator) handleRequestProfiles(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.RequestPlayerProfiles)
	if !s.OnLevel() {
		return ErrUnexpectedPlayerData
	}
	isMod := s.Moderator

	// Single account: exact-size fast path, no list construction.
	if p.Requested != 0 {
		prof, ok := o.profiles.Lookup(p.Requested, isMod)
		if !ok {
			return nil
		}
		buf := protocol.NewBuffer(protocol.TagSize + 4 + prof.EncodedSize())
		buf.WriteU16(uint16(protocol.TagPlayerProfiles))
		buf.WriteU32(1)
		prof.EncodeTo(buf)
		if err := buf.Err(); err != nil {
			return err
		}
		return s.SendFrame(buf.Bytes())
	}

	var memberIDs []int32
	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		count, ok := lm.PlayerCountOnLevel(s.LevelID)
		if !ok || count <= 1 {
			return
		}
		memberIDs = make([]int32, 0, count-1)
		lm.ForEachPlayerOnLevel(s.LevelID, func(pl *level.Player) {
			if pl.AccountID != s.AccountID {
				memberIDs = append(memberIDs, pl.AccountID)
			}
		})
	})

	profiles := make([]protocol.PlayerProfile, 0, len(memberIDs))
	for _, id := range memberIDs {
		if prof, ok := o.profiles.Lookup(id, isMod); ok {
			profiles = append(profiles, prof)
		}
	}
	return s.Send(&protocol.PlayerProfiles{Players: profiles})
}

func (o *Orchestrator) handleVoice(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.Voice)
	if !s.OnLevel() {
		return nil
	}
	o.broadcast.BroadcastVoice(&protocol.VoiceBroadcast{
		PlayerID: s.AccountID,
		Data:     p.Data,
	}, s.LevelID, s.RoomID)
	return nil
}

func (o *Orchestrator) handleChatMessage(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.ChatMessage)
	if p.Message == "" || !s.OnLevel() {
		return nil
	}
	o.broadcast.BroadcastChat(&protocol.ChatMessageBroadcast{
		PlayerID: s.AccountID,
		Message:  p.Message,
	}, s.LevelID, s.RoomID)
	return nil
}

// handleSwitchQuery refreshes the level's eligible set from live membership,
// then asks its scheduler for the event in effect at the queried timestamp.
// Concurrent queriers converge on the same event regardless of arrival order.
func (o *Orchestrator) handleSwitchQuery(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.SwitchQuery)
	if !s.OnLevel() {
		return nil
	}

	var ev level.SwitchEvent
	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		lvl, ok := lm.GetLevel(s.LevelID)
		if !ok {
			return
		}
		lvl.Switch.SetPlayers(lvl.Players)
		ev = lvl.Switch.NextSwitch(p.Timestamp)
	})

	return s.Send(&protocol.SwitchInfo{PlayerID: ev.PlayerID, Timestamp: ev.Timestamp})
}

func (o *Orchestrator) handleSwitchDeath(s *Session, pkt protocol.Packet) error {
	p := pkt.(*protocol.SwitchDeath)
	if !s.OnLevel() {
		return nil
	}

	o.rooms.WithAny(s.RoomID, func(lm *level.Manager) {
		if sw, ok := lm.SwitchManagerFor(s.LevelID); ok {
			sw.RecordDeath(p.Timestamp)
		}
	})
	return nil
}

func encodeOrLog(pkt protocol.Encodable) []byte {
	frame, err := protocol.Encode(pkt)
	if err != nil {
		log.Error().Err(err).Uint16("tag", uint16(pkt.Tag())).Msg("packet encode failed")
		return nil
	}
	return frame
}
