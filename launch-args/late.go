package launch_args

import (
	"crypto/md5"
	"github.com/google/uuid"
	"strconv"
)

// Account is the signed in player the late placeholders are bound to.
type Account struct {
	DisplayName string `json:"display_name"`
	UUID        string `json:"uuid"`
	AccessToken string `json:"access_token"`
	XUID        string `json:"xuid,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
}

// OfflineAccount is an account for name that was never authenticated. The
// uuid is the name based v3 uuid of "OfflinePlayer:<name>" the game server
// derives for offline players, and the access token is a dummy.
func OfflineAccount(name string) Account {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return Account{
		DisplayName: name,
		UUID:        uuid.UUID(sum).String(),
		AccessToken: "0",
	}
}

type Resolution struct {
	Width  int `yaml:"width" toml:"width" json:"width"`
	Height int `yaml:"height" toml:"height" json:"height"`
}

func (a Account) values(res *Resolution) map[Placeholder]string {
	m := map[Placeholder]string{
		AuthPlayerName:  a.DisplayName,
		AuthUUID:        a.UUID,
		AuthAccessToken: a.AccessToken,
		AuthXUID:        a.XUID,
		ClientID:        a.ClientID,
	}
	if res != nil && res.Width > 0 && res.Height > 0 {
		m[ResolutionWidth] = strconv.Itoa(res.Width)
		m[ResolutionHeight] = strconv.Itoa(res.Height)
	}
	return m
}

// BindLate substitutes the account and resolution placeholders left in args
// by Build. args is not modified.
func BindLate(args []string, acc Account, res *Resolution) []string {
	values := acc.values(res)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Substitute(a, values)
	}
	return out
}

// Pending lists the late placeholders still present in args.
func Pending(args []string) []Placeholder {
	var a []Placeholder
	for _, s := range args {
		for _, t := range Tokens(s) {
			if t.Late() {
				a = append(a, t)
			}
		}
	}
	return a
}
