// Package accesssdk is a Go client for the Lendár[IA]OS access service.
//
// The access service owns the role/area permission model, the invite
// lifecycle and user grant reconciliation. It does not issue sessions;
// callers obtain a bearer token from the platform auth provider and hand
// it to the Client.
//
// Basic usage:
//
//	client := accesssdk.NewClient("https://access.lendarios.internal", token)
//
//	invite, err := client.CreateInvite(ctx, accesssdk.InviteRequest{
//		Email:  "maria@example.com",
//		RoleID: "collaborator",
//		Areas:  []string{"pedagogical"},
//	})
//	if err != nil {
//		// *accesssdk.APIError carries the HTTP status and error code
//	}
//	fmt.Println(invite.InviteURL)
//
// Unauthenticated endpoints (signup, bootstrap, health) work with an empty
// token.
package accesssdk
