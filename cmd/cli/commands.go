package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zfogg/inkwell/backend/internal/auth"
	"github.com/zfogg/inkwell/backend/internal/models"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject> <name>",
	Short: "Mint a development identity token",
	Long: `Sign an identity token with AUTH_JWT_SECRET, the way the auth provider would.
Only useful against a backend sharing that secret.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("AUTH_JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET environment variable not set")
		}
		email, _ := cmd.Flags().GetString("email")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := auth.SignIdentityToken([]byte(secret), os.Getenv("AUTH_ISSUER"), auth.Identity{
			Subject: args[0],
			Name:    args[1],
			Email:   email,
		}, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Store your identity and show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		var resp struct {
			UserID string       `json:"user_id"`
			User   *models.User `json:"user"`
		}
		if err := call(cmd.Context(), "POST", "/users/store", nil, &resp); err != nil {
			return err
		}
		if output == "json" {
			return printJSON(resp.User)
		}
		fmt.Printf("%s (%s)\n", resp.User.Name, resp.UserID)
		fmt.Printf("  Email: %s\n", resp.User.Email)
		fmt.Printf("  Onboarded: %v\n", resp.User.HasCompletedOnboarding)
		return nil
	},
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Write and read posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a post from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		draft, _ := cmd.Flags().GetBool("draft")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		var content []byte
		var err error
		if file == "" || file == "-" {
			content, err = io.ReadAll(os.Stdin)
		} else {
			content, err = os.ReadFile(file)
		}
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}

		status := models.PostStatusPublished
		if draft {
			status = models.PostStatusDraft
		}
		body := map[string]interface{}{
			"title":   args[0],
			"content": string(content),
			"status":  status,
			"tags":    tags,
		}
		var resp struct {
			PostID string `json:"post_id"`
		}
		if err := call(cmd.Context(), "POST", "/posts", body, &resp); err != nil {
			return err
		}
		fmt.Println(resp.PostID)
		return nil
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post, or remove your like",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		var resp struct {
			Action    string `json:"action"`
			LikeCount int64  `json:"like_count"`
		}
		if err := call(cmd.Context(), "POST", "/posts/"+args[0]+"/like", nil, &resp); err != nil {
			return err
		}
		fmt.Printf("%s (%d likes)\n", resp.Action, resp.LikeCount)
		return nil
	},
}

var postCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		var resp struct {
			CommentID string `json:"comment_id"`
		}
		body := map[string]string{"content": strings.Join(args[1:], " ")}
		if err := call(cmd.Context(), "POST", "/posts/"+args[0]+"/comments", body, &resp); err != nil {
			return err
		}
		fmt.Println(resp.CommentID)
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show your feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		trending, _ := cmd.Flags().GetBool("trending")

		path := fmt.Sprintf("/feed?limit=%d", limit)
		if trending {
			path = fmt.Sprintf("/feed/trending?limit=%d", limit)
		}
		var resp struct {
			Posts []*models.Post `json:"posts"`
		}
		if err := call(cmd.Context(), "GET", path, nil, &resp); err != nil {
			return err
		}
		if output == "json" {
			return printJSON(resp.Posts)
		}
		if len(resp.Posts) == 0 {
			fmt.Println("Nothing here yet")
			return nil
		}
		for _, p := range resp.Posts {
			fmt.Printf("%s  %-40s  by %s  ♥ %d  💬 %d  %s\n",
				p.ID, p.Title, p.AuthorName, p.LikeCount, p.CommentCount, p.CreatedAt.Format(time.DateOnly))
		}
		return nil
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user, or unfollow if already following",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		var resp struct {
			Action string `json:"action"`
		}
		if err := call(cmd.Context(), "POST", "/users/"+args[0]+"/follow", nil, &resp); err != nil {
			return err
		}
		fmt.Println(resp.Action)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("email", "", "Email claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	postCreateCmd.Flags().StringP("file", "f", "", "Read content from file (default stdin)")
	postCreateCmd.Flags().Bool("draft", false, "Save as draft instead of publishing")
	postCreateCmd.Flags().StringSlice("tag", nil, "Tag to attach (repeatable)")
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postCommentCmd)

	feedCmd.Flags().Int("limit", 20, "Number of posts")
	feedCmd.Flags().Bool("trending", false, "Show trending posts instead")
}

func requireToken() error {
	if authToken == "" {
		return fmt.Errorf("INKWELL_TOKEN environment variable not set; mint one with `inkwell token`")
	}
	return nil
}
