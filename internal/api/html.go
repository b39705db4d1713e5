package api

// indexHTML is the single-page client. It starts a game on load and
// posts free-text choices back to /continue.
const indexHTML = `<html>
  <body style="font-family:monospace; background:#fdf6e3; padding:2rem;">
    <h1>Westbound &mdash; Oregon Trail, AI edition</h1>
    <div id="story" style="white-space:pre-wrap;"></div>
    <input id="choice" placeholder="Enter choice..." style="width:80%;" />
    <button onclick="sendChoice()">Send</button>
    <script>
      const storyDiv = document.getElementById("story");
      const choiceInput = document.getElementById("choice");
      let storySoFar = "";

      async function startGame() {
        const res = await fetch("/play");
        const data = await res.json();
        storySoFar = data.story;
        storyDiv.innerText = storySoFar;
      }

      async function sendChoice() {
        const playerChoice = choiceInput.value.trim();
        if (!playerChoice) return;
        const res = await fetch("/continue", {
          method: "POST",
          headers: {"Content-Type": "application/json"},
          body: JSON.stringify({ playerChoice })
        });
        if (!res.ok) {
          storyDiv.innerText = storySoFar + "\n\n[" + await res.text() + "]";
          return;
        }
        const data = await res.json();
        storySoFar += "\n\n" + data.story;
        storyDiv.innerText = storySoFar;
        choiceInput.value = "";
      }

      startGame();
    </script>
  </body>
</html>
`
