package tests

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	businessflow "github.com/SwipeCast-Vellena/vellena-backend/business_flow"
	"github.com/SwipeCast-Vellena/vellena-backend/repository"
	testingutil "github.com/SwipeCast-Vellena/vellena-backend/testing"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedisServer speaks just enough of the redis wire protocol for the match
// status cache: GET, SET and DEL plus the client handshake. Rejecting HELLO
// the way a pre-6 server would makes the client fall back to RESP2.
type fakeRedisServer struct {
	ln      net.Listener
	mu      sync.Mutex
	data    map[string]string
	deleted []string
}

func newFakeRedisServer(t *testing.T) *fakeRedisServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeRedisServer{ln: ln, data: make(map[string]string)}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeRedisServer) client() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: s.ln.Addr().String()})
}

func (s *fakeRedisServer) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *fakeRedisServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeRedisServer) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)
	for {
		args, err := readWireCommand(r)
		if err != nil {
			return
		}
		if _, err := conn.Write([]byte(s.reply(args))); err != nil {
			return
		}
	}
}

// readWireCommand reads one RESP array of bulk strings.
func readWireCommand(r *bufio.Reader) ([]string, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	header = strings.TrimRight(header, "\r\n")
	if !strings.HasPrefix(header, "*") {
		return nil, fmt.Errorf("unexpected frame %q", header)
	}
	n, err := strconv.Atoi(header[1:])
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sizeLine, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeLine = strings.TrimRight(sizeLine, "\r\n")
		if !strings.HasPrefix(sizeLine, "$") {
			return nil, fmt.Errorf("unexpected frame %q", sizeLine)
		}
		size, err := strconv.Atoi(sizeLine[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func (s *fakeRedisServer) reply(args []string) string {
	if len(args) == 0 {
		return "-ERR empty command\r\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToLower(args[0]) {
	case "hello":
		return "-ERR unknown command 'hello'\r\n"
	case "client":
		return "+OK\r\n"
	case "ping":
		return "+PONG\r\n"
	case "set":
		if len(args) < 3 {
			return "-ERR wrong number of arguments for 'set'\r\n"
		}
		s.data[args[1]] = args[2]
		return "+OK\r\n"
	case "get":
		if len(args) != 2 {
			return "-ERR wrong number of arguments for 'get'\r\n"
		}
		v, ok := s.data[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return "$" + strconv.Itoa(len(v)) + "\r\n" + v + "\r\n"
	case "del":
		removed := 0
		for _, key := range args[1:] {
			s.deleted = append(s.deleted, key)
			if _, ok := s.data[key]; ok {
				delete(s.data, key)
				removed++
			}
		}
		return ":" + strconv.Itoa(removed) + "\r\n"
	}
	return "-ERR unknown command '" + args[0] + "'\r\n"
}

func TestMatchStatusCacheInvalidation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		newCachedApplicationFlow := func(rc *redis.Client) businessflow.ApplicationFlow {
			return businessflow.NewApplicationFlow(
				repository.NewAccountRepository(testDB.DB),
				repository.NewModelProfileRepository(testDB.DB),
				repository.NewCampaignRepository(testDB.DB),
				repository.NewApplicationRepository(testDB.DB),
				repository.NewMatchRepository(testDB.DB),
				repository.NewAuditLogRepository(testDB.DB),
				testDB.DB,
				rc,
				nil,
			)
		}

		t.Run("ApprovalRefreshesCachedStatus", func(t *testing.T) {
			srv := newFakeRedisServer(t)
			rc := srv.client()
			defer func() { _ = rc.Close() }()

			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			agencyAccount, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 90)
			require.NoError(t, err)

			applicationFlow := newCachedApplicationFlow(rc)

			// Prime the cache with the pending status.
			status, err := applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			require.True(t, status.Matched)
			require.False(t, status.AgencyApproved)

			approvalFlow := businessflow.NewApprovalFlow(
				repository.NewAccountRepository(testDB.DB),
				repository.NewModelProfileRepository(testDB.DB),
				repository.NewAgencyProfileRepository(testDB.DB),
				repository.NewCampaignRepository(testDB.DB),
				repository.NewMatchRepository(testDB.DB),
				repository.NewAuditLogRepository(testDB.DB),
				&fakeChannelService{},
				testDB.DB,
				rc,
			)

			_, err = approvalFlow.ApproveMatch(context.Background(), &dto.ApproveMatchRequest{
				AccountID:      agencyAccount.ID,
				CampaignID:     campaign.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.NoError(t, err)

			// A model polling right after approval sees the new state even
			// though the cached pending entry was still inside its TTL.
			status, err = applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			assert.True(t, status.AgencyApproved)
			assert.True(t, status.ChannelProvisioned)
			assert.Contains(t, srv.deletedKeys(), fmt.Sprintf("match_status:%d:%d", campaign.ID, profile.ID))
		})

		t.Run("FavoriteRefreshesCachedStatus", func(t *testing.T) {
			srv := newFakeRedisServer(t)
			rc := srv.client()
			defer func() { _ = rc.Close() }()

			modelAccount, profile, err := fixtures.CreateModelWithProfile()
			require.NoError(t, err)
			agencyAccount, agency, err := fixtures.CreateAgencyWithProfile()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(agency.ID)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMatch(campaign.ID, profile.ID, agency.ID, 85)
			require.NoError(t, err)

			applicationFlow := newCachedApplicationFlow(rc)

			status, err := applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			require.True(t, status.Matched)
			require.False(t, status.AgencyApproved)

			favoriteFlow := businessflow.NewFavoriteFlow(
				repository.NewAccountRepository(testDB.DB),
				repository.NewModelProfileRepository(testDB.DB),
				repository.NewAgencyProfileRepository(testDB.DB),
				repository.NewFavoriteRepository(testDB.DB),
				repository.NewMatchRepository(testDB.DB),
				repository.NewAuditLogRepository(testDB.DB),
				&fakeChannelService{},
				testDB.DB,
				rc,
			)

			result, err := favoriteFlow.Favorite(context.Background(), &dto.FavoriteRequest{
				AccountID:      agencyAccount.ID,
				ModelProfileID: profile.ID,
			}, metadata)
			require.NoError(t, err)
			require.Equal(t, []uint{campaign.ID}, result.ApprovedCampaigns)

			status, err = applicationFlow.GetMatchStatus(context.Background(), &dto.MatchStatusRequest{
				AccountID:  modelAccount.ID,
				CampaignID: campaign.ID,
			})
			require.NoError(t, err)
			assert.True(t, status.AgencyApproved)
			assert.Contains(t, srv.deletedKeys(), fmt.Sprintf("match_status:%d:%d", campaign.ID, profile.ID))
		})

		return nil
	})

	require.NoError(t, err)
}
